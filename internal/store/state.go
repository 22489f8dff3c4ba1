package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// stateRepo implements StateRepo for one user on SQLite.
type stateRepo struct {
	store  *Store
	userID string
}

func (r *stateRepo) Load(ctx context.Context, key Key, dst any) (bool, error) {
	query, args := r.store.queries.LoadState(r.userID, key)
	var raw string
	err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := DecodeRecord([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *stateRepo) Apply(ctx context.Context, w Write) (err error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now()
	for key, v := range w.Records {
		raw, encErr := EncodeRecord(v)
		if encErr != nil {
			return fmt.Errorf("encode %s: %w", key, encErr)
		}
		query, args := r.store.queries.UpsertState(r.userID, key, raw, now)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	var seq int64
	if w.Session != nil {
		rec := *w.Session
		if rec.Sequence == 0 {
			if rec.Sequence, err = r.store.seq.Next(ctx, tx); err != nil {
				return err
			}
		}
		query, args, qErr := r.store.queries.InsertSession(r.userID, rec)
		if qErr != nil {
			return qErr
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		seq = rec.Sequence
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	// The caller only sees a sequence once it is durable.
	if w.Session != nil {
		w.Session.Sequence = seq
	}
	return nil
}

func (r *stateRepo) Sessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	query, args := r.store.queries.SelectSessions(r.userID, opts)
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := ScanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return Chronological(out), nil
}

func (r *stateRepo) Reset(ctx context.Context) (err error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range UserTables() {
		query, args := r.store.queries.DeleteUser(table, r.userID)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
