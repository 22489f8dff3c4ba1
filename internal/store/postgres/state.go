package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/abhisek/netquiz/internal/store"
)

const nextSequenceSQL = `SELECT nextval(pg_get_serial_sequence('session_history', 'sequence'))`

// stateRepo implements store.StateRepo for one user on PostgreSQL.
type stateRepo struct {
	store  *Store
	userID string
}

func (r *stateRepo) Load(ctx context.Context, key store.Key, dst any) (bool, error) {
	query, args := r.store.queries.LoadState(r.userID, key)
	var raw string
	err := r.store.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := store.DecodeRecord([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *stateRepo) Apply(ctx context.Context, w store.Write) error {
	var seq int64
	err := r.store.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now()
		for key, v := range w.Records {
			raw, err := store.EncodeRecord(v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", key, err)
			}
			query, args := r.store.queries.UpsertState(r.userID, key, raw, now)
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("save %s: %w", key, err)
			}
		}

		if w.Session == nil {
			return nil
		}
		rec := *w.Session
		if rec.Sequence == 0 {
			if err := tx.QueryRow(ctx, nextSequenceSQL).Scan(&rec.Sequence); err != nil {
				return fmt.Errorf("next sequence: %w", err)
			}
		}
		query, args, err := r.store.queries.InsertSession(r.userID, rec)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		seq = rec.Sequence
		return nil
	})
	if err != nil {
		return err
	}
	if w.Session != nil {
		w.Session.Sequence = seq
	}
	return nil
}

func (r *stateRepo) Sessions(ctx context.Context, opts store.QueryOpts) ([]store.SessionRecord, error) {
	query, args := r.store.queries.SelectSessions(r.userID, opts)
	rows, err := r.store.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []store.SessionRecord
	for rows.Next() {
		rec, err := store.ScanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return store.Chronological(out), nil
}

func (r *stateRepo) Reset(ctx context.Context) error {
	return r.store.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, table := range store.UserTables() {
			query, args := r.store.queries.DeleteUser(table, r.userID)
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}
