// internal/notify/notify.go

// Package notify carries lobby lifecycle events from the engine to the chat
// channels that announce them. Delivery is best-effort and at-most-once:
// the engine's state transition has already committed by the time an event
// is emitted, and no delivery failure ever rolls it back.
package notify

import "context"

// Event kinds.
const (
	KindCreated = "created"
	KindJoined  = "joined"
)

// Event describes one lobby lifecycle transition.
type Event struct {
	Kind      string `json:"kind"`
	LobbyID   string `json:"lobby_id"`
	LobbyName string `json:"lobby_name"`

	// Identity is the member who joined; empty for created events.
	Identity string `json:"identity,omitempty"`

	// Members is the roster at the time of the event, join order preserved.
	Members []string `json:"members,omitempty"`

	// Slots is the token -> candidate map, carried on created events so the
	// fan-out worker can deliver each candidate their personal invite link.
	Slots map[string]string `json:"slots,omitempty"`

	// Timestamp is unix seconds at emit time.
	Timestamp int64 `json:"timestamp"`
}

// Sink receives lifecycle events. Implementations must be safe for
// concurrent use and should return quickly; slow delivery belongs in the
// fan-out worker, not on the engine's request path.
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// NopSink discards every event. Useful in tests and for deployments with no
// notification channels configured.
type NopSink struct{}

// Notify implements Sink.
func (NopSink) Notify(ctx context.Context, ev Event) error { return nil }
