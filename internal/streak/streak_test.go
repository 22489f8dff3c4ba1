package streak

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/netquiz/internal/store"
)

func day(d int) time.Time {
	return time.Date(2026, 5, d, 18, 0, 0, 0, time.UTC)
}

func TestPassed(t *testing.T) {
	tests := []struct {
		score, total int
		want         bool
	}{
		{7, 10, true},
		{6, 10, false},
		{10, 10, true},
		{0, 0, false},
		{0, -1, false},
		{42, 60, true},
		{41, 60, false},
		{3, 4, true},
		{2, 3, false}, // 66.7%
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Passed(tt.score, tt.total), "Passed(%d, %d)", tt.score, tt.total)
	}
}

func TestAdvance_Scenario(t *testing.T) {
	var s State

	s = Advance(s, 8, 10, day(1))
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 1, s.Best)

	s = Advance(s, 9, 10, day(2))
	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 2, s.Best)

	s = Advance(s, 1, 10, day(2))
	assert.Equal(t, 2, s.Current, "fail after a same-day pass keeps the day's credit")

	s = Advance(s, 1, 10, day(4))
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 2, s.Best)
	assert.Equal(t, "2026-05-04", s.LastActivityDate)
	assert.Equal(t, "2026-05-02", s.LastPassDate)
}

func TestAdvance_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		score int
		want  State
	}{
		{
			name:  "same day pass unchanged",
			state: State{Current: 4, Best: 6, LastPassDate: "2026-05-10", LastActivityDate: "2026-05-10"},
			score: 10,
			want:  State{Current: 4, Best: 6, LastPassDate: "2026-05-10", LastActivityDate: "2026-05-10"},
		},
		{
			name:  "gap resets to one",
			state: State{Current: 4, Best: 6, LastPassDate: "2026-05-07"},
			score: 10,
			want:  State{Current: 1, Best: 6, LastPassDate: "2026-05-10", LastActivityDate: "2026-05-10"},
		},
		{
			name:  "new best",
			state: State{Current: 6, Best: 6, LastPassDate: "2026-05-09"},
			score: 7,
			want:  State{Current: 7, Best: 7, LastPassDate: "2026-05-10", LastActivityDate: "2026-05-10"},
		},
		{
			name:  "fail without pass today",
			state: State{Current: 3, Best: 3, LastPassDate: "2026-05-09"},
			score: 2,
			want:  State{Current: 0, Best: 3, LastPassDate: "2026-05-09", LastActivityDate: "2026-05-10"},
		},
		{
			name:  "first ever fail",
			state: State{},
			score: 0,
			want:  State{LastActivityDate: "2026-05-10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advance(tt.state, tt.score, 10, day(10)))
		})
	}
}

func TestAdvance_MonthBoundary(t *testing.T) {
	s := State{Current: 2, Best: 2, LastPassDate: "2026-04-30"}
	s = Advance(s, 10, 10, day(1))
	assert.Equal(t, 3, s.Current)
}

func TestNextMilestone(t *testing.T) {
	tests := []struct{ current, want int }{
		{0, 3}, {2, 3}, {3, 7}, {13, 14}, {29, 30}, {30, 60}, {61, 90},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextMilestone(tt.current), "NextMilestone(%d)", tt.current)
	}
}

func TestTracker_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemRepo()
	now := day(3)
	tr := NewTracker(ctx, repo, nil, func() time.Time { return now })

	got := tr.Update(ctx, 9, 10)
	require.Equal(t, 1, got.Current)

	reloaded := NewTracker(ctx, repo, nil, func() time.Time { return now })
	assert.Equal(t, got, reloaded.State())

	preview := reloaded.Preview(0, 10, now)
	assert.Equal(t, 1, preview.Current)
	assert.Equal(t, got, reloaded.State(), "Preview must not mutate")
}

func TestTracker_PersistenceFailures(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemRepo()
	repo.FailLoads = true
	repo.FailWrites = true
	core, logs := observer.New(zapcore.WarnLevel)

	tr := NewTracker(ctx, repo, zap.New(core), func() time.Time { return day(3) })
	assert.Equal(t, State{}, tr.State())

	got := tr.Update(ctx, 10, 10)
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, got, tr.State())
	assert.Equal(t, 1, logs.FilterMessage("load streak").Len())
	assert.Equal(t, 1, logs.FilterMessage("save streak").Len())
}
