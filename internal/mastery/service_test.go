package mastery

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/netquiz/internal/question"
	"github.com/abhisek/netquiz/internal/store"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func testQuestions() []question.Question {
	return []question.Question{
		{ID: 1, Text: "Which layer does a router operate at?", Topic: "OSI Model"},
		{ID: 2, Text: "What is the default VLAN on a switch?", Topic: "Switching"},
		{ID: 3, Text: "Which port does DNS use?"},
		{ID: 4, Text: "What is a /30 subnet used for?", Topic: "Subnetting"},
	}
}

func TestApply_StreakTransitions(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   []bool
		wantStreak int
		wantLevel  Level
	}{
		{"first correct", []bool{true}, 1, LevelReview},
		{"first incorrect", []bool{false}, -1, LevelWeak},
		{"three correct", []bool{true, true, true}, 3, LevelMastered},
		{"correct then incorrect", []bool{true, false}, -1, LevelWeak},
		{"incorrect then correct", []bool{false, false, true}, 1, LevelReview},
		{"mastered then miss", []bool{true, true, true, false}, -1, LevelReview},
		{"two misses", []bool{false, false}, -2, LevelWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s QuestionStat
			for _, ok := range tt.outcomes {
				s = Apply(s, ok, fixedNow)
			}
			if s.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", s.Streak, tt.wantStreak)
			}
			if s.Mastery != tt.wantLevel {
				t.Errorf("Mastery = %q, want %q", s.Mastery, tt.wantLevel)
			}
			if s.Attempts != s.Correct+s.Incorrect {
				t.Errorf("Attempts = %d, want %d", s.Attempts, s.Correct+s.Incorrect)
			}
			if s.Attempts != len(tt.outcomes) {
				t.Errorf("Attempts = %d, want %d", s.Attempts, len(tt.outcomes))
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		stat QuestionStat
		want Level
	}{
		{"streak three", QuestionStat{Attempts: 3, Correct: 3, Streak: 3}, LevelMastered},
		{"streak one", QuestionStat{Attempts: 1, Correct: 1, Streak: 1}, LevelReview},
		{"more correct than incorrect", QuestionStat{Attempts: 4, Correct: 3, Incorrect: 1, Streak: -1}, LevelReview},
		{"even record", QuestionStat{Attempts: 2, Correct: 1, Incorrect: 1, Streak: -1}, LevelWeak},
		{"zero stat", QuestionStat{}, LevelWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.stat); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordResult_Persists(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemRepo()
	svc := NewService(ctx, repo, nil, clock)

	for range 3 {
		svc.RecordResult(ctx, 7, true)
	}
	if got := svc.Level(7); got != LevelMastered {
		t.Fatalf("Level(7) = %q, want mastered", got)
	}
	if repo.Applies != 3 {
		t.Errorf("Applies = %d, want 3", repo.Applies)
	}

	reloaded := NewService(ctx, repo, nil, clock)
	stat, ok := reloaded.Stat(7)
	if !ok {
		t.Fatal("reloaded service missing stat for question 7")
	}
	if stat.Correct != 3 || stat.Streak != 3 || stat.Mastery != LevelMastered {
		t.Errorf("reloaded stat = %+v", stat)
	}
	if !stat.LastAttemptedAt.Equal(fixedNow) {
		t.Errorf("LastAttemptedAt = %v, want %v", stat.LastAttemptedAt, fixedNow)
	}
}

func TestRecordResult_PersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemRepo()
	repo.FailWrites = true
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(ctx, repo, zap.New(core), clock)

	stat := svc.RecordResult(ctx, 1, false)
	if stat.Incorrect != 1 {
		t.Fatalf("Incorrect = %d, want 1", stat.Incorrect)
	}
	if got := svc.Level(1); got != LevelWeak {
		t.Errorf("Level(1) = %q, want weak", got)
	}
	if n := logs.FilterMessage("save question stats").Len(); n != 1 {
		t.Errorf("warn logs = %d, want 1", n)
	}
}

func TestNewService_LoadFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("load error", func(t *testing.T) {
		repo := store.NewMemRepo()
		repo.FailLoads = true
		core, logs := observer.New(zapcore.WarnLevel)
		svc := NewService(ctx, repo, zap.New(core), clock)
		if len(svc.Snapshot()) != 0 {
			t.Error("expected empty stats")
		}
		if logs.Len() != 1 {
			t.Errorf("warn logs = %d, want 1", logs.Len())
		}
	})

	t.Run("version mismatch", func(t *testing.T) {
		repo := store.NewMemRepo()
		repo.SetRaw(store.KeyQuestionStats, []byte(`{"version":"v2.0.0","data":{"1":{"attempts":1}}}`))
		svc := NewService(ctx, repo, nil, clock)
		if _, ok := svc.Stat(1); ok {
			t.Error("stat from incompatible record should be ignored")
		}
	})

	t.Run("stored level is rederived", func(t *testing.T) {
		repo := store.NewMemRepo()
		stale := map[int]QuestionStat{5: {Attempts: 3, Correct: 3, Streak: 3, Mastery: LevelWeak}}
		if err := store.Put(ctx, repo, store.KeyQuestionStats, stale); err != nil {
			t.Fatal(err)
		}
		svc := NewService(ctx, repo, nil, clock)
		if got := svc.Level(5); got != LevelMastered {
			t.Errorf("Level(5) = %q, want mastered", got)
		}
	})
}

func TestPools(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, nil, nil, clock)
	qs := testQuestions()

	svc.RecordResult(ctx, 1, false) // weak
	svc.RecordResult(ctx, 2, true)  // review
	for range 3 {
		svc.RecordResult(ctx, 3, true) // mastered
	}

	c := svc.Counts(qs)
	want := Counts{Mastered: 1, Review: 1, Weak: 1, Unseen: 1}
	if c != want {
		t.Errorf("Counts = %+v, want %+v", c, want)
	}
	if c.Total() != len(qs) {
		t.Errorf("Total = %d, want %d", c.Total(), len(qs))
	}

	weak := svc.ByMastery(qs, LevelWeak)
	if len(weak) != 1 || weak[0].ID != 1 {
		t.Errorf("ByMastery(weak) = %v, want [1]", ids(weak))
	}

	pool := svc.WeakOrUnseen(qs)
	if got := ids(pool); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("WeakOrUnseen = %v, want [1 4]", got)
	}

	if got := svc.ByMastery(qs, LevelUnseen); len(got) != 1 || got[0].ID != 4 {
		t.Errorf("ByMastery(unseen) = %v, want [4]", ids(got))
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, nil, nil, clock)
	svc.RecordResult(ctx, 1, true)

	snap := svc.Snapshot()
	snap[1] = Apply(snap[1], false, fixedNow)
	if got := svc.Level(1); got != LevelReview {
		t.Errorf("mutating snapshot changed service: Level(1) = %q", got)
	}
}

func TestTopicStats(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, nil, nil, clock)
	qs := testQuestions()

	svc.RecordResult(ctx, 1, true)
	svc.RecordResult(ctx, 1, false)
	svc.RecordResult(ctx, 3, true)

	ts := svc.TopicStats(qs)
	osi := ts["OSI Model"]
	if osi == nil {
		t.Fatal("missing OSI Model topic")
	}
	if osi.Total != 1 || osi.Attempted != 1 || osi.Attempts != 2 || osi.Correct != 1 {
		t.Errorf("OSI Model = %+v", *osi)
	}
	if acc := osi.Accuracy(); acc != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", acc)
	}

	sub := ts["Subnetting"]
	if sub == nil || sub.Attempted != 0 || sub.Accuracy() != 0 {
		t.Errorf("Subnetting = %+v", sub)
	}

	topic := qs[2].TopicOrClassified()
	if ts[topic] == nil || ts[topic].Review != 1 {
		t.Errorf("classified topic %q = %+v", topic, ts[topic])
	}
}

func TestLevelDisplayName(t *testing.T) {
	for _, l := range AllLevels() {
		if l.DisplayName() == "" || l.DisplayName() == string(l) {
			t.Errorf("DisplayName(%q) = %q", l, l.DisplayName())
		}
	}
}

func ids(qs []question.Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
