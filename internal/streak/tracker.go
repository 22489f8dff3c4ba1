package streak

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/netquiz/internal/store"
)

// Tracker owns one user's streak record.
type Tracker struct {
	state State
	repo  store.StateRepo
	log   *zap.Logger
	now   func() time.Time
}

// NewTracker creates a Tracker, loading the stored streak from repo.
// A failed load starts from the zero state.
func NewTracker(ctx context.Context, repo store.StateRepo, log *zap.Logger, now func() time.Time) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	t := &Tracker{repo: repo, log: log, now: now}
	if repo == nil {
		return t
	}
	if _, err := repo.Load(ctx, store.KeyStreak, &t.state); err != nil {
		log.Warn("load streak", zap.Error(err))
		t.state = State{}
	}
	return t
}

// Update records one completed session and persists the new state.
func (t *Tracker) Update(ctx context.Context, score, total int) State {
	t.state = Advance(t.state, score, total, t.now())
	if t.repo != nil {
		if err := store.Put(ctx, t.repo, store.KeyStreak, t.state); err != nil {
			t.log.Warn("save streak", zap.Error(err))
		}
	}
	return t.state
}

// Preview returns the state a session finished at at would produce,
// without applying it.
func (t *Tracker) Preview(score, total int, at time.Time) State {
	return Advance(t.state, score, total, at)
}

// State returns the current streak state.
func (t *Tracker) State() State {
	return t.state
}

// Replace swaps in s without persisting.
func (t *Tracker) Replace(s State) {
	t.state = s
}
