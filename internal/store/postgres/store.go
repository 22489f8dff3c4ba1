package postgres

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhisek/netquiz/internal/store"
)

// Store holds the PostgreSQL pool and hands out per-user state repos.
type Store struct {
	pool    *pgxpool.Pool
	tx      *Transactor
	queries store.Queries
}

// Open connects to dsn and runs migrations.
func Open(ctx context.Context, dsn string, cfg PoolConfig) (*Store, error) {
	pool, err := NewPool(ctx, dsn, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		pool:    pool,
		tx:      NewTransactor(pool),
		queries: store.NewQueries(dialect.Postgres),
	}, nil
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close releases all pooled connections.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// StateRepo returns a StateRepo scoped to userID.
func (s *Store) StateRepo(userID string) store.StateRepo {
	return &stateRepo{store: s, userID: userID}
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_state (
			user_id TEXT NOT NULL,
			record_key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (user_id, record_key)
		)`,
		`CREATE TABLE IF NOT EXISTS session_history (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			sequence BIGINT GENERATED BY DEFAULT AS IDENTITY UNIQUE,
			recorded_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			start_index INTEGER NOT NULL,
			end_index INTEGER NOT NULL,
			is_redo BOOLEAN NOT NULL DEFAULT FALSE,
			answers TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_history_user_seq ON session_history(user_id, sequence)`,
		`CREATE INDEX IF NOT EXISTS idx_session_history_recorded_at ON session_history(recorded_at)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
