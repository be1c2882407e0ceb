// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"github.com/mutantlabs/lobbyd/internal/models"
)

// MemoryStore is an in-process Store used by tests and single-node deploys.
// It keeps deep copies on both write and read so callers can never mutate
// stored state except through ConditionalUpdate.
type MemoryStore struct {
	mu      sync.Mutex
	lobbies map[string]memoryEntry
}

type memoryEntry struct {
	lobby    *models.Lobby
	revision Revision
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lobbies: make(map[string]memoryEntry),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, lobby *models.Lobby) (Revision, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lobbies[lobby.ID]; exists {
		return 0, ErrAlreadyExists
	}
	s.lobbies[lobby.ID] = memoryEntry{lobby: lobby.Clone(), revision: 1}
	return 1, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, lobbyID string) (*models.Lobby, Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lobbies[lobbyID]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return entry.lobby.Clone(), entry.revision, nil
}

// ConditionalUpdate implements Store.
func (s *MemoryStore) ConditionalUpdate(ctx context.Context, lobbyID string, lobby *models.Lobby, expected Revision) (Revision, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lobbies[lobbyID]
	if !ok {
		return 0, ErrNotFound
	}
	if entry.revision != expected {
		return 0, ErrRevisionMismatch
	}
	next := entry.revision + 1
	s.lobbies[lobbyID] = memoryEntry{lobby: lobby.Clone(), revision: next}
	return next, nil
}
