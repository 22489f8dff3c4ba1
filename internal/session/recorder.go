package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/netquiz/internal/mastery"
	"github.com/abhisek/netquiz/internal/question"
	"github.com/abhisek/netquiz/internal/store"
	"github.com/abhisek/netquiz/internal/streak"
	"github.com/abhisek/netquiz/internal/subscription"
)

// Deps are the components a Recorder folds session results into.
type Deps struct {
	Mastery *mastery.Service
	Streak  *streak.Tracker
	Gate    *subscription.Gate

	// Questions resolves question text for the incorrect answers log.
	Questions []question.Question

	// MaxIncorrect bounds the incorrect answers log; zero takes the default.
	MaxIncorrect int
}

// Recorder commits completed sessions and serves the progress log.
type Recorder struct {
	deps     Deps
	index    map[int]question.Question
	progress Progress
	recent   []Entry

	repo store.StateRepo
	log  *zap.Logger
	now  func() time.Time
}

// NewRecorder creates a Recorder, loading progress from repo. A failed load
// starts from empty progress.
func NewRecorder(ctx context.Context, repo store.StateRepo, log *zap.Logger, now func() time.Time, deps Deps) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	if deps.MaxIncorrect <= 0 {
		deps.MaxIncorrect = DefaultMaxIncorrect
	}
	r := &Recorder{
		deps:  deps,
		index: question.Index(deps.Questions),
		repo:  repo,
		log:   log,
		now:   now,
	}
	if repo == nil {
		return r
	}
	if _, err := repo.Load(ctx, store.KeyProgress, &r.progress); err != nil {
		log.Warn("load progress", zap.Error(err))
		r.progress = Progress{}
	}
	return r
}

// Commit folds a completed session into mastery, the daily streak, the
// usage ledger and the progress log, archiving it in history. All records
// and the history entry are written in one storage transaction; a failed
// write is logged and the in-memory state still advances.
func (r *Recorder) Commit(ctx context.Context, res Result) Entry {
	res = res.normalize()
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CompletedAt.IsZero() {
		res.CompletedAt = r.now()
	}

	stats := r.deps.Mastery.Snapshot()
	for _, a := range res.Answers {
		stats[a.QuestionID] = mastery.Apply(stats[a.QuestionID], a.IsCorrect, res.CompletedAt)
	}
	st := r.deps.Streak.Preview(res.Score, res.Total, res.CompletedAt)
	ledger, debit := r.deps.Gate.PendingUsage(res.Total)
	progress := r.progress.advance(res, r.index, r.deps.MaxIncorrect)

	records := map[store.Key]any{
		store.KeyQuestionStats: stats,
		store.KeyStreak:        st,
		store.KeyProgress:      progress,
	}
	if debit {
		records[store.KeyUsage] = ledger
	}
	rec := toRecord(res)

	if r.repo != nil {
		if err := r.repo.Apply(ctx, store.Write{Records: records, Session: &rec}); err != nil {
			r.log.Warn("commit session",
				zap.Error(err),
				zap.String("session_id", res.ID),
				zap.String("mode", string(res.Mode)))
		}
	}

	r.deps.Mastery.Replace(stats)
	r.deps.Streak.Replace(st)
	if debit {
		r.deps.Gate.ReplaceLedger(ledger)
	}
	r.progress = progress

	entry := Entry{Result: res, Sequence: rec.Sequence}
	r.recent = append(r.recent, entry)
	return entry
}

// History returns up to limit of the most recent sessions, oldest first.
// A zero limit returns all of them. When storage cannot be read, the
// sessions committed by this Recorder are returned instead.
func (r *Recorder) History(ctx context.Context, limit int) []Entry {
	if r.repo == nil {
		return lastN(r.recent, limit)
	}
	recs, err := r.repo.Sessions(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		r.log.Warn("load session history", zap.Error(err))
		return lastN(r.recent, limit)
	}
	out := make([]Entry, len(recs))
	for i, rec := range recs {
		out[i] = fromRecord(rec)
	}
	return out
}

// Progress returns a copy of the progress log.
func (r *Recorder) Progress() Progress {
	p := r.progress
	p.IncorrectLog = append([]IncorrectEntry(nil), r.progress.IncorrectLog...)
	return p
}

// NextStartIndex returns the sequential cursor.
func (r *Recorder) NextStartIndex() int {
	return r.progress.NextStartIndex
}

// Reset clears the user's study data: question stats, streak, progress and
// history. The subscription tier and this month's usage are kept.
func (r *Recorder) Reset(ctx context.Context) error {
	if r.repo != nil {
		if err := r.repo.Reset(ctx); err != nil {
			return fmt.Errorf("reset user data: %w", err)
		}
		keep := store.Write{Records: map[store.Key]any{
			store.KeyTier:  string(r.deps.Gate.Tier()),
			store.KeyUsage: r.deps.Gate.Ledger(),
		}}
		if err := r.repo.Apply(ctx, keep); err != nil {
			return fmt.Errorf("restore subscription state: %w", err)
		}
	}

	r.deps.Mastery.Replace(nil)
	r.deps.Streak.Replace(streak.State{})
	r.progress = Progress{}
	r.recent = nil
	return nil
}

func lastN(entries []Entry, n int) []Entry {
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return append([]Entry(nil), entries...)
}
