package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the SQLite database and hands out per-user state repos.
type Store struct {
	db      *sql.DB
	seq     *sequenceCounter
	queries Queries
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps per-connection pragmas in force and serializes
	// the single user's writes.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq, queries: NewQueries(dialect.SQLite)}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StateRepo returns a StateRepo scoped to userID.
func (s *Store) StateRepo(userID string) StateRepo {
	return &stateRepo{store: s, userID: userID}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
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
			sequence INTEGER NOT NULL UNIQUE,
			recorded_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			start_index INTEGER NOT NULL,
			end_index INTEGER NOT NULL,
			is_redo INTEGER NOT NULL DEFAULT 0,
			answers TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_history_user_seq ON session_history(user_id, sequence)`,
		`CREATE INDEX IF NOT EXISTS idx_session_history_recorded_at ON session_history(recorded_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. NETQUIZ_DB environment variable
// 2. $XDG_DATA_HOME/netquiz/netquiz.db
// 3. ~/.local/share/netquiz/netquiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("NETQUIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "netquiz", "netquiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
