// internal/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/mutantlabs/lobbyd/internal/models"
)

// Revision is the opaque optimistic-concurrency token returned by every read
// and required by every conditional write. Callers never inspect it beyond
// passing it back.
type Revision int64

var (
	// ErrNotFound indicates no record exists for the given lobby ID.
	ErrNotFound = errors.New("store: lobby not found")

	// ErrAlreadyExists indicates a Create hit an existing key.
	ErrAlreadyExists = errors.New("store: lobby already exists")

	// ErrRevisionMismatch indicates the record changed since it was read,
	// so the conditional update was rejected.
	ErrRevisionMismatch = errors.New("store: revision mismatch")
)

// Store is the durable persistence contract for lobby records.
// ConditionalUpdate is the sole mutation primitive after creation: a write
// only succeeds if the stored revision still equals the one the caller read,
// which is what makes concurrent joins safe across processes.
type Store interface {
	// Create atomically inserts a new lobby, failing with ErrAlreadyExists
	// if the ID is taken.
	Create(ctx context.Context, lobby *models.Lobby) (Revision, error)

	// Get returns the lobby and its current revision, or ErrNotFound.
	Get(ctx context.Context, lobbyID string) (*models.Lobby, Revision, error)

	// ConditionalUpdate replaces the stored record only if its revision
	// still equals expected. Returns the new revision on success,
	// ErrRevisionMismatch if a concurrent writer got there first, or
	// ErrNotFound if the record vanished.
	ConditionalUpdate(ctx context.Context, lobbyID string, lobby *models.Lobby, expected Revision) (Revision, error)
}
