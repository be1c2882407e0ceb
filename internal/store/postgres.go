// internal/store/postgres.go
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mutantlabs/lobbyd/internal/models"
)

// PostgresStore persists lobby records in a single `lobbies` table with a
// bigint revision column. Conditional updates compare-and-bump the revision
// inside one UPDATE, so the database serializes concurrent joins regardless
// of how many service instances are running.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ConnectPostgres builds a pool from the DATABASE_URL environment variable
// and pings it before returning.
func ConnectPostgres(ctx context.Context) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return NewPostgresStore(pool), nil
}

// EnsureSchema creates the lobbies table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	q := `
	CREATE TABLE IF NOT EXISTS lobbies (
		id        text PRIMARY KEY,
		name      text NOT NULL,
		creator   text NOT NULL,
		joined    text[] NOT NULL,
		max_users int NOT NULL,
		public    boolean NOT NULL,
		slots     jsonb NOT NULL,
		expires   timestamptz NOT NULL,
		revision  bigint NOT NULL
	)`
	_, err := s.pool.Exec(ctx, q)
	return err
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, lobby *models.Lobby) (Revision, error) {
	q := `
	INSERT INTO lobbies (id, name, creator, joined, max_users, public, slots, expires, revision)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			lobby.ID,
			lobby.Name,
			lobby.Creator,
			lobby.Joined,
			lobby.Max,
			lobby.Public,
			lobby.Slots,
			lobby.Expires,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on the primary key.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return 1, nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, lobbyID string) (*models.Lobby, Revision, error) {
	var l models.Lobby
	var rev int64
	q := `
	SELECT id, name, creator, joined, max_users, public, slots, expires, revision
	FROM lobbies
	WHERE id = $1
	`
	err := s.pool.QueryRow(ctx, q, lobbyID).Scan(
		&l.ID,
		&l.Name,
		&l.Creator,
		&l.Joined,
		&l.Max,
		&l.Public,
		&l.Slots,
		&l.Expires,
		&rev,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return &l, Revision(rev), nil
}

// ConditionalUpdate implements Store. The WHERE clause on revision makes the
// write atomic; zero rows affected means either a concurrent writer bumped
// the revision or the record is gone, disambiguated with a follow-up lookup.
func (s *PostgresStore) ConditionalUpdate(ctx context.Context, lobbyID string, lobby *models.Lobby, expected Revision) (Revision, error) {
	q := `
	UPDATE lobbies
	SET joined = $2, slots = $3, expires = $4, revision = revision + 1
	WHERE id = $1 AND revision = $5
	`
	var updated bool
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, q, lobbyID, lobby.Joined, lobby.Slots, lobby.Expires, int64(expected))
		if err != nil {
			return err
		}
		updated = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !updated {
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lobbies WHERE id = $1)`, lobbyID).Scan(&exists); err != nil {
			return 0, err
		}
		if !exists {
			return 0, ErrNotFound
		}
		return 0, ErrRevisionMismatch
	}
	return expected + 1, nil
}
