// internal/lobby/engine.go

// Package lobby implements the lobby lifecycle state machine: creation with
// slot allocation, concurrency-safe joins, and lazy expiry.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mutantlabs/lobbyd/internal/config"
	"github.com/mutantlabs/lobbyd/internal/models"
	"github.com/mutantlabs/lobbyd/internal/namegen"
	"github.com/mutantlabs/lobbyd/internal/notify"
	"github.com/mutantlabs/lobbyd/internal/slots"
	"github.com/mutantlabs/lobbyd/internal/store"
)

// createIDAttempts bounds the retry loop for lobby ID collisions. An actual
// collision in an 8-character ID space is astronomically unlikely, but the
// store contract refuses to overwrite, so the loop exists for correctness.
const createIDAttempts = 5

// Engine is the lobby state machine. All coordination between concurrent
// callers goes through the store's conditional-update primitive; the engine
// itself holds no locks and keeps no mutable state, so any number of
// instances can serve the same store.
type Engine struct {
	cfg   *config.Config
	store store.Store
	sink  notify.Sink
	names *namegen.Generator
	log   *logrus.Logger

	// now is swapped out by tests to pin the clock.
	now func() time.Time
}

// NewEngine builds an engine over the given store and notification sink.
func NewEngine(cfg *config.Config, st store.Store, sink notify.Sink, logger *logrus.Logger) *Engine {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &Engine{
		cfg:   cfg,
		store: st,
		sink:  sink,
		names: namegen.New("", cfg.Lobby.NameSuffix),
		log:   logger,
		now:   time.Now,
	}
}

// newLobbyID derives an 8-character alphanumeric ID from a fresh v4 UUID.
func newLobbyID() string {
	return uuid.NewString()[:8]
}

// CreateLobby opens a new lobby. The creator and any initial invitees are
// pre-joined (deduplicated, creator first); every known user not already
// joined gets a slot token. Capacity must hold everyone pre-joined and the
// TTL must be positive.
func (e *Engine) CreateLobby(ctx context.Context, creator string, invitees []string, public bool, max int, ttl time.Duration) (*models.Lobby, error) {
	if creator == "" {
		return nil, fmt.Errorf("%w: missing creator", ErrInvalidInput)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidInput)
	}

	joined := []string{creator}
	for _, inv := range invitees {
		if inv == "" {
			continue
		}
		already := false
		for _, j := range joined {
			if j == inv {
				already = true
				break
			}
		}
		if !already {
			joined = append(joined, inv)
		}
	}
	if max < len(joined) {
		return nil, fmt.Errorf("%w: capacity %d cannot hold %d members", ErrInvalidCapacity, max, len(joined))
	}

	slotMap, err := slots.Allocate(e.candidatePool(joined))
	if err != nil {
		return nil, fmt.Errorf("allocate slots: %w", err)
	}

	l := &models.Lobby{
		Name:    e.names.Name(),
		Creator: creator,
		Joined:  joined,
		Max:     max,
		Public:  public,
		Slots:   slotMap,
		Expires: e.now().Add(ttl),
	}

	for attempt := 0; attempt < createIDAttempts; attempt++ {
		l.ID = newLobbyID()
		_, err = e.create(ctx, l)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			e.log.Warnf("lobby id %s collided, regenerating", l.ID)
			continue
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: id space exhausted after %d attempts", ErrStoreUnavailable, createIDAttempts)
	}

	e.log.WithFields(logrus.Fields{
		"lobby":   l.ID,
		"name":    l.Name,
		"creator": models.DisplayName(creator),
		"slots":   len(l.Slots),
	}).Info("lobby created")

	e.emit(ctx, notify.Event{
		Kind:      notify.KindCreated,
		LobbyID:   l.ID,
		LobbyName: l.Name,
		Members:   l.Joined,
		Slots:     l.Slots,
	})
	return l, nil
}

// candidatePool returns every allow-listed identity not already joined, in
// stable order.
func (e *Engine) candidatePool(joined []string) []string {
	pool := make([]string, 0, len(e.cfg.Users))
	for identity := range e.cfg.Users {
		skip := false
		for _, j := range joined {
			if j == identity {
				skip = true
				break
			}
		}
		if !skip {
			pool = append(pool, identity)
		}
	}
	sort.Strings(pool)
	return pool
}

// ResolveSlot translates a slot token into the candidate identity it was
// issued for. Pure lookup, no mutation.
func (e *Engine) ResolveSlot(ctx context.Context, lobbyID, slotToken string) (string, error) {
	l, _, err := e.load(ctx, lobbyID)
	if err != nil {
		return "", err
	}
	identity, ok := l.Slots[slotToken]
	if !ok {
		return "", ErrSlotNotFound
	}
	return identity, nil
}

// Get returns the current lobby record, for display purposes.
func (e *Engine) Get(ctx context.Context, lobbyID string) (*models.Lobby, error) {
	l, _, err := e.load(ctx, lobbyID)
	return l, err
}

// Join admits identity into the lobby. Validation runs in a fixed order so
// a caller hitting several conditions at once always observes the same one:
// permission, then duplicate, then capacity. The append is committed with a
// conditional write; on revision mismatch the whole sequence reruns against
// the fresh record, up to the configured retry budget.
//
// Two concurrent joins for different identities therefore never lose an
// update or overrun Max, and two concurrent joins for the same identity
// converge on a single membership entry with the loser seeing
// ErrAlreadyJoined.
func (e *Engine) Join(ctx context.Context, lobbyID, identity string) (*models.Lobby, error) {
	for attempt := 0; attempt < e.cfg.Lobby.JoinRetries; attempt++ {
		l, rev, err := e.load(ctx, lobbyID)
		if err != nil {
			return nil, err
		}

		if !l.Public && !e.cfg.KnownUser(identity) {
			return nil, ErrPermissionDenied
		}
		if l.HasJoined(identity) {
			return nil, ErrAlreadyJoined
		}
		if l.Full() {
			return nil, ErrLobbyFull
		}

		updated := l.Clone()
		updated.Joined = append(updated.Joined, identity)

		_, err = e.conditionalUpdate(ctx, lobbyID, updated, rev)
		if err == nil {
			e.log.WithFields(logrus.Fields{
				"lobby":  lobbyID,
				"member": models.DisplayName(identity),
				"count":  len(updated.Joined),
			}).Info("member joined")

			e.emit(ctx, notify.Event{
				Kind:      notify.KindJoined,
				LobbyID:   updated.ID,
				LobbyName: updated.Name,
				Identity:  identity,
				Members:   updated.Joined,
			})
			return updated, nil
		}
		if errors.Is(err, store.ErrRevisionMismatch) {
			// Another join committed first; revalidate against the
			// fresh record.
			continue
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil, ErrContention
}

// load fetches a lobby and rejects it if expired. Expiry is checked lazily
// on every access; there is no background reaper in this process.
func (e *Engine) load(ctx context.Context, lobbyID string) (*models.Lobby, store.Revision, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Lobby.StoreTimeout)
	defer cancel()

	l, rev, err := e.store.Get(ctx, lobbyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, ErrLobbyNotFound
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if l.Expired(e.now()) {
		return nil, 0, ErrLobbyExpired
	}
	return l, rev, nil
}

func (e *Engine) create(ctx context.Context, l *models.Lobby) (store.Revision, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Lobby.StoreTimeout)
	defer cancel()
	return e.store.Create(ctx, l)
}

func (e *Engine) conditionalUpdate(ctx context.Context, lobbyID string, l *models.Lobby, rev store.Revision) (store.Revision, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Lobby.StoreTimeout)
	defer cancel()
	return e.store.ConditionalUpdate(ctx, lobbyID, l, rev)
}

// emit delivers a lifecycle event to the sink. Best-effort: the state
// transition has already committed, so failures are logged and swallowed.
// A fresh context is used so an already-cancelled request cannot suppress
// the event for a committed transition.
func (e *Engine) emit(ctx context.Context, ev notify.Event) {
	ev.Timestamp = e.now().Unix()
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := e.sink.Notify(notifyCtx, ev); err != nil {
		e.log.WithError(err).Warnf("failed to emit %s event for lobby %s", ev.Kind, ev.LobbyID)
	}
}
