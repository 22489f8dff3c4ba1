package practice

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/netquiz/internal/mastery"
	"github.com/abhisek/netquiz/internal/question"
)

type fixedCursor int

func (c fixedCursor) NextStartIndex() int { return int(c) }

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func makeQuestions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{ID: i + 1, Text: "Q", CorrectAnswers: []string{"A"}}
	}
	return qs
}

// seed builds a mastery service where ids in weak are weak, review are
// review, mastered are mastered; all others stay unseen.
func seed(t *testing.T, weak, review, mastered []int) *mastery.Service {
	t.Helper()
	ctx := context.Background()
	svc := mastery.NewService(ctx, nil, nil, nil)
	for _, id := range weak {
		svc.RecordResult(ctx, id, false)
	}
	for _, id := range review {
		svc.RecordResult(ctx, id, true)
	}
	for _, id := range mastered {
		for range 3 {
			svc.RecordResult(ctx, id, true)
		}
	}
	return svc
}

func span(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func idSet(qs []question.Question) map[int]bool {
	out := make(map[int]bool, len(qs))
	for _, q := range qs {
		out[q.ID] = true
	}
	return out
}

func assertDistinct(t *testing.T, qs []question.Question) {
	t.Helper()
	assert.Len(t, idSet(qs), len(qs), "selection contains duplicates")
}

func TestSelect_NormalIsSequential(t *testing.T) {
	sel := NewSelector(seed(t, nil, nil, nil), nil, testRNG(), Options{})
	got := sel.Select(ModeNormal, makeQuestions(5), 10)
	assert.True(t, got.Sequential)
	assert.Empty(t, got.Questions)
	assert.False(t, got.Empty())
}

func TestSelect_UnknownModeIsEmpty(t *testing.T) {
	sel := NewSelector(seed(t, nil, nil, nil), nil, testRNG(), Options{})
	got := sel.Select(Mode("speedrun"), makeQuestions(5), 10)
	assert.True(t, got.Empty())
}

func TestSelect_EmptyQuestionSet(t *testing.T) {
	sel := NewSelector(seed(t, nil, nil, nil), fixedCursor(0), testRNG(), Options{})
	for _, info := range Modes() {
		if info.Mode == ModeNormal {
			continue
		}
		got := sel.Select(info.Mode, nil, 10)
		assert.Empty(t, got.Questions, "mode %s", info.Mode)
	}
}

func TestSelect_Weak(t *testing.T) {
	all := makeQuestions(20)
	sel := NewSelector(seed(t, span(1, 3), span(4, 8), span(9, 12)), nil, testRNG(), Options{})

	got := sel.Select(ModeWeak, all, 10)
	require.Len(t, got.Questions, 10)
	assertDistinct(t, got.Questions)
	for _, q := range got.Questions {
		assert.True(t, q.ID <= 3 || q.ID >= 13, "question %d is not weak or unseen", q.ID)
	}

	// Pool smaller than count returns the whole pool.
	got = sel.Select(ModeWeak, all, 50)
	assert.Len(t, got.Questions, 11)
}

func TestSelect_Review(t *testing.T) {
	all := makeQuestions(20)

	t.Run("enough review", func(t *testing.T) {
		sel := NewSelector(seed(t, span(1, 5), span(6, 17), nil), nil, testRNG(), Options{})
		got := sel.Select(ModeReview, all, 10)
		require.Len(t, got.Questions, 10)
		for _, q := range got.Questions {
			assert.True(t, q.ID >= 6 && q.ID <= 17, "question %d is not review", q.ID)
		}
	})

	t.Run("topped up with weak", func(t *testing.T) {
		sel := NewSelector(seed(t, span(1, 5), span(6, 8), span(9, 20)), nil, testRNG(), Options{})
		got := sel.Select(ModeReview, all, 10)
		require.Len(t, got.Questions, 8)
		assertDistinct(t, got.Questions)
		for _, q := range got.Questions {
			assert.LessOrEqual(t, q.ID, 8, "mastered question %d in review pool", q.ID)
		}
	})
}

func TestSelect_Mastered(t *testing.T) {
	all := makeQuestions(10)
	sel := NewSelector(seed(t, nil, nil, []int{2, 4, 6}), nil, testRNG(), Options{})
	got := sel.Select(ModeMastered, all, 10)
	assert.Equal(t, map[int]bool{2: true, 4: true, 6: true}, idSet(got.Questions))
}

func TestMixedQuota(t *testing.T) {
	tests := []struct {
		count                  int
		weak, review, mastered int
	}{
		{10, 5, 3, 2},
		{20, 10, 6, 4},
		{7, 4, 3, 0},
		{1, 1, 0, 0},
		{2, 1, 1, 0},
		{3, 2, 1, 0},
		{0, 0, 0, 0},
		{60, 30, 18, 12},
	}
	for _, tt := range tests {
		w, r, m := MixedQuota(tt.count)
		assert.Equal(t, []int{tt.weak, tt.review, tt.mastered}, []int{w, r, m}, "MixedQuota(%d)", tt.count)
	}
	for count := range 101 {
		w, r, m := MixedQuota(count)
		assert.Equal(t, count, w+r+m, "MixedQuota(%d) sum", count)
		assert.GreaterOrEqual(t, m, 0)
	}
}

func TestSelect_MixedProportions(t *testing.T) {
	all := makeQuestions(60)
	svc := seed(t, span(1, 20), span(21, 40), span(41, 60))

	for seedN := range uint64(20) {
		sel := NewSelector(svc, nil, rand.New(rand.NewPCG(seedN, 7)), Options{})
		got := sel.Select(ModeMixed, all, 10)
		require.Len(t, got.Questions, 10)
		assertDistinct(t, got.Questions)

		var c mastery.Counts
		for _, q := range got.Questions {
			switch svc.Level(q.ID) {
			case mastery.LevelWeak:
				c.Weak++
			case mastery.LevelReview:
				c.Review++
			case mastery.LevelMastered:
				c.Mastered++
			}
		}
		assert.Equal(t, mastery.Counts{Weak: 5, Review: 3, Mastered: 2}, c)
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		name string
		stat mastery.QuestionStat
		seen bool
		want int
	}{
		{"unseen", mastery.QuestionStat{}, false, 2},
		{"single miss is weak", mastery.QuestionStat{Attempts: 1, Incorrect: 1, Streak: -1, Mastery: mastery.LevelWeak}, true, 6},
		{"mastered floor", mastery.QuestionStat{Attempts: 3, Correct: 3, Streak: 3, Mastery: mastery.LevelMastered}, true, 1},
		{"review", mastery.QuestionStat{Attempts: 3, Correct: 1, Incorrect: 2, Streak: 1, Mastery: mastery.LevelReview}, true, 5},
		{"weak doubled", mastery.QuestionStat{Attempts: 4, Correct: 2, Incorrect: 2, Streak: -2, Mastery: mastery.LevelWeak}, true, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Weight(tt.stat, tt.seen))
		})
	}
}

func TestDraw(t *testing.T) {
	pool := []Weighted[string]{{"a", 1}, {"b", 0}, {"c", 3}}
	snapshot := slices.Clone(pool)

	tests := []struct {
		point int
		want  string
		ok    bool
	}{
		{0, "a", true},
		{1, "c", true},
		{3, "c", true},
		{4, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		item, rest, ok := Draw(pool, tt.point)
		assert.Equal(t, tt.ok, ok, "Draw(%d)", tt.point)
		assert.Equal(t, tt.want, item, "Draw(%d)", tt.point)
		if ok {
			assert.Len(t, rest, len(pool)-1)
			for _, w := range rest {
				assert.NotEqual(t, tt.want, w.Item)
			}
		}
	}
	assert.Equal(t, snapshot, pool, "Draw modified its input")
}

func TestSample_NoReplacement(t *testing.T) {
	pool := []Weighted[int]{{1, 5}, {2, 1}, {3, 1}, {4, 9}}
	rng := testRNG()
	for range 200 {
		got := Sample(rng, pool, 10)
		require.Len(t, got, 4, "stops when the pool empties")
		assert.ElementsMatch(t, []int{1, 2, 3, 4}, got)
	}
	assert.Empty(t, Sample(rng, pool, 0))
	assert.Empty(t, Sample(rng, []Weighted[int]{}, 3))
}

func TestSample_ProportionalToWeight(t *testing.T) {
	pool := []Weighted[int]{{0, 1}, {1, 2}, {2, 3}, {3, 4}}
	const trials = 40000
	rng := testRNG()

	hits := make([]int, len(pool))
	for range trials {
		got := Sample(rng, pool, 1)
		require.Len(t, got, 1)
		hits[got[0]]++
	}
	total := float64(TotalWeight(pool))
	for i, w := range pool {
		want := float64(w.Weight) / total
		got := float64(hits[i]) / trials
		assert.InDelta(t, want, got, 0.015, "item %d", i)
	}
}

func TestSelect_ReinforcementDistinct(t *testing.T) {
	all := makeQuestions(30)
	sel := NewSelector(seed(t, span(1, 10), span(11, 15), span(16, 20)), nil, testRNG(), Options{})
	got := sel.Select(ModeReinforcement, all, 10)
	require.Len(t, got.Questions, 10)
	assertDistinct(t, got.Questions)

	got = sel.Select(ModeReinforcement, all, 100)
	assert.Len(t, got.Questions, 30)
	assertDistinct(t, got.Questions)
}

func TestSelect_Exam(t *testing.T) {
	all := makeQuestions(100)
	opts := Options{ExamQuestionCount: 60, ExamDuration: 90 * time.Minute}

	t.Run("from cursor", func(t *testing.T) {
		sel := NewSelector(seed(t, nil, nil, nil), fixedCursor(30), testRNG(), opts)
		got := sel.Select(ModeExam, all, 10)
		require.Len(t, got.Questions, 60)
		assert.Equal(t, 31, got.Questions[0].ID)
		assert.Equal(t, 90, got.Questions[59].ID)
		assert.Equal(t, 90*time.Minute, got.TimeLimit)
	})

	t.Run("wraps to start", func(t *testing.T) {
		sel := NewSelector(seed(t, nil, nil, nil), fixedCursor(50), testRNG(), opts)
		got := sel.Select(ModeExam, all, 10)
		require.Len(t, got.Questions, 60)
		assert.Equal(t, 1, got.Questions[0].ID)
	})

	t.Run("short question set", func(t *testing.T) {
		sel := NewSelector(seed(t, nil, nil, nil), fixedCursor(5), testRNG(), opts)
		got := sel.Select(ModeExam, makeQuestions(12), 10)
		assert.Len(t, got.Questions, 12)
	})

	t.Run("defaults", func(t *testing.T) {
		sel := NewSelector(seed(t, nil, nil, nil), nil, testRNG(), Options{})
		got := sel.Select(ModeExam, all, 10)
		assert.Len(t, got.Questions, DefaultExamQuestionCount)
		assert.Equal(t, DefaultExamDuration, got.TimeLimit)
	})
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	all := makeQuestions(40)
	orig := slices.Clone(all)
	sel := NewSelector(seed(t, span(1, 10), span(11, 20), span(21, 30)), fixedCursor(0), testRNG(), Options{ExamQuestionCount: 10})

	for _, info := range Modes() {
		sel.Select(info.Mode, all, 10)
	}
	assert.Equal(t, orig, all)

	got := sel.Select(ModeExam, all, 10)
	got.Questions[0].Text = "changed"
	assert.Equal(t, "Q", all[0].Text, "exam block aliases the input")
}

func TestShuffle(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	orig := slices.Clone(in)
	out := Shuffle(testRNG(), in)
	assert.Equal(t, orig, in)
	assert.ElementsMatch(t, in, out)
	assert.Empty(t, Shuffle(testRNG(), []int{}))
}

func TestBlock(t *testing.T) {
	all := makeQuestions(15)
	assert.Len(t, Block(all, 0, 10), 10)
	assert.Len(t, Block(all, 10, 10), 5)
	assert.Empty(t, Block(all, 15, 10))
	assert.Empty(t, Block(all, -1, 10))
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode(" Reinforcement ")
	assert.True(t, ok)
	assert.Equal(t, ModeReinforcement, m)

	_, ok = ParseMode("speedrun")
	assert.False(t, ok)

	assert.Len(t, Modes(), 7)
	for _, info := range Modes() {
		assert.True(t, info.Mode.Valid())
		assert.NotEmpty(t, info.Label)
	}
}

func TestSequential(t *testing.T) {
	all := makeQuestions(25)

	start, qs := Sequential(all, 20, 10)
	assert.Equal(t, 20, start)
	assert.Len(t, qs, 5)

	start, qs = Sequential(all, 25, 10)
	assert.Equal(t, 0, start)
	require.Len(t, qs, 10)
	assert.Equal(t, 1, qs[0].ID)

	_, qs = Sequential(nil, 0, 10)
	assert.Empty(t, qs)
}
