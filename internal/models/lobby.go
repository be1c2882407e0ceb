// internal/models/lobby.go
package models

import (
	"slices"
	"strings"
	"time"
)

// Lobby is the persisted invitation record. One row/item per lobby, keyed by
// ID. Every field is always present; the store never writes a partial record.
type Lobby struct {
	// ID is the 8-character alphanumeric primary key, immutable after creation.
	ID string `json:"id"`

	// Name is the human-readable display name. Non-unique, immutable.
	Name string `json:"name"`

	// Creator is the identity that opened the lobby. Always the first entry
	// of Joined.
	Creator string `json:"creator"`

	// Joined holds member identities in join order. It only ever grows, and
	// len(Joined) <= Max at all times.
	Joined []string `json:"joined"`

	// Max is the lobby capacity, counting the creator.
	Max int `json:"max"`

	// Public controls whether identities outside the known-users allow-list
	// may join.
	Public bool `json:"public"`

	// Slots maps an unguessable 8-character slot token to the candidate
	// identity it was issued for. Built once at creation and never pruned;
	// Joined is the sole membership record.
	Slots map[string]string `json:"slots"`

	// Expires is the instant after which the lobby rejects all operations.
	Expires time.Time `json:"expires"`
}

// HasJoined reports whether identity is already a member.
func (l *Lobby) HasJoined(identity string) bool {
	return slices.Contains(l.Joined, identity)
}

// Full reports whether the lobby has reached capacity.
func (l *Lobby) Full() bool {
	return len(l.Joined) >= l.Max
}

// Expired reports whether the lobby is past its expiry at the given instant.
func (l *Lobby) Expired(now time.Time) bool {
	return !now.Before(l.Expires)
}

// Clone returns a deep copy. Join mutates a copy and commits it with a
// conditional write, so the loaded record must stay untouched for retries.
func (l *Lobby) Clone() *Lobby {
	c := *l
	c.Joined = slices.Clone(l.Joined)
	c.Slots = make(map[string]string, len(l.Slots))
	for tok, id := range l.Slots {
		c.Slots[tok] = id
	}
	return &c
}

// DisplayName strips the trailing "#NNNN" discriminator from an identity for
// user-facing text, e.g. "ripley#4077" -> "ripley".
func DisplayName(identity string) string {
	if i := strings.LastIndex(identity, "#"); i > 0 && len(identity)-i == 5 {
		return identity[:i]
	}
	return identity
}
