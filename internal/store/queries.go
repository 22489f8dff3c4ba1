package store

import (
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableUserState      = "user_state"
	tableSessionHistory = "session_history"
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in the layout used by timestamp columns.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime parses a timestamp column value.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// Queries builds the SQL shared by the SQLite and PostgreSQL backends.
type Queries struct {
	b *entsql.DialectBuilder
}

// NewQueries returns a builder for the given ent dialect name.
func NewQueries(dialect string) Queries {
	return Queries{b: entsql.Dialect(dialect)}
}

// LoadState selects the encoded record for one user and key.
func (q Queries) LoadState(userID string, key Key) (string, []any) {
	return q.b.Select("value").
		From(q.b.Table(tableUserState)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("record_key", string(key)),
		)).
		Query()
}

// UpsertState inserts or replaces one encoded record.
func (q Queries) UpsertState(userID string, key Key, value []byte, now time.Time) (string, []any) {
	return q.b.Insert(tableUserState).
		Columns("user_id", "record_key", "value", "updated_at").
		Values(userID, string(key), string(value), FormatTime(now)).
		OnConflict(
			entsql.ConflictColumns("user_id", "record_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
}

// InsertSession appends an archived session. A zero Sequence leaves the
// column to the database default.
func (q Queries) InsertSession(userID string, rec SessionRecord) (string, []any, error) {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return "", nil, fmt.Errorf("marshal answers: %w", err)
	}
	cols := []string{"id", "user_id", "recorded_at", "mode", "score", "total", "start_index", "end_index", "is_redo", "answers"}
	vals := []any{rec.ID, userID, FormatTime(rec.Timestamp), rec.Mode, rec.Score, rec.Total, rec.StartIndex, rec.EndIndex, rec.IsRedo, string(answers)}
	if rec.Sequence != 0 {
		cols = append(cols, "sequence")
		vals = append(vals, rec.Sequence)
	}
	query, args := q.b.Insert(tableSessionHistory).Columns(cols...).Values(vals...).Query()
	return query, args, nil
}

// sessionColumns is the column order scanned by ScanSession.
var sessionColumns = []string{"id", "sequence", "recorded_at", "mode", "score", "total", "start_index", "end_index", "is_redo", "answers"}

// SelectSessions lists a user's sessions newest first, honoring opts.
func (q Queries) SelectSessions(userID string, opts QueryOpts) (string, []any) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("recorded_at", FormatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("recorded_at", FormatTime(opts.To)))
	}
	sel := q.b.Select(sessionColumns...).
		From(q.b.Table(tableSessionHistory)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	return sel.Query()
}

// DeleteUser removes all of a user's rows from table.
func (q Queries) DeleteUser(table, userID string) (string, []any) {
	return q.b.Delete(table).Where(entsql.EQ("user_id", userID)).Query()
}

// UserTables lists the tables holding per-user rows.
func UserTables() []string {
	return []string{tableUserState, tableSessionHistory}
}

// Scanner is satisfied by *sql.Row, *sql.Rows and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanSession reads one row selected by SelectSessions.
func ScanSession(s Scanner) (SessionRecord, error) {
	var (
		rec      SessionRecord
		recorded string
		answers  string
	)
	if err := s.Scan(&rec.ID, &rec.Sequence, &recorded, &rec.Mode, &rec.Score, &rec.Total,
		&rec.StartIndex, &rec.EndIndex, &rec.IsRedo, &answers); err != nil {
		return SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}
	ts, err := ParseTime(recorded)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("parse session time: %w", err)
	}
	rec.Timestamp = ts
	if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return rec, nil
}

// Chronological reverses a newest-first slice in place and returns it.
func Chronological(recs []SessionRecord) []SessionRecord {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs
}
