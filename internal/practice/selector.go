package practice

import (
	"math/rand/v2"
	"time"

	"github.com/abhisek/netquiz/internal/mastery"
	"github.com/abhisek/netquiz/internal/question"
)

const (
	DefaultSessionSize       = 10
	DefaultExamQuestionCount = 60
	DefaultExamDuration      = 90 * time.Minute
)

// MasteryReader is the read side of the mastery store used for pooling.
type MasteryReader interface {
	Stat(questionID int) (mastery.QuestionStat, bool)
	Level(questionID int) mastery.Level
	ByMastery(questions []question.Question, level mastery.Level) []question.Question
	WeakOrUnseen(questions []question.Question) []question.Question
}

// Cursor supplies the stored sequential start index.
type Cursor interface {
	NextStartIndex() int
}

// Selection is the outcome of choosing questions for a mode.
type Selection struct {
	Questions []question.Question

	// Sequential is set for normal mode: the caller serves questions from
	// its sequential cursor instead of Questions.
	Sequential bool

	// TimeLimit is non-zero for timed modes.
	TimeLimit time.Duration
}

// Empty reports whether the selection has nothing to serve.
func (s Selection) Empty() bool {
	return !s.Sequential && len(s.Questions) == 0
}

// Options configures a Selector.
type Options struct {
	ExamQuestionCount int
	ExamDuration      time.Duration
}

// Selector picks session questions for each practice mode.
type Selector struct {
	mastery MasteryReader
	cursor  Cursor
	rng     *rand.Rand
	opts    Options
}

// NewSelector creates a Selector. A nil rng uses a randomly seeded source;
// zero options take the defaults.
func NewSelector(m MasteryReader, cursor Cursor, rng *rand.Rand, opts Options) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.ExamQuestionCount <= 0 {
		opts.ExamQuestionCount = DefaultExamQuestionCount
	}
	if opts.ExamDuration <= 0 {
		opts.ExamDuration = DefaultExamDuration
	}
	return &Selector{mastery: m, cursor: cursor, rng: rng, opts: opts}
}

// Select returns the questions for one session of mode drawn from all.
// Unknown modes and empty pools yield an empty selection. all is never
// modified.
func (s *Selector) Select(mode Mode, all []question.Question, count int) Selection {
	if mode == ModeNormal {
		return Selection{Sequential: true}
	}
	if mode == ModeExam {
		return s.exam(all)
	}
	if count <= 0 {
		return Selection{}
	}

	var qs []question.Question
	switch mode {
	case ModeWeak:
		qs = truncate(Shuffle(s.rng, s.mastery.WeakOrUnseen(all)), count)
	case ModeReview:
		qs = s.review(all, count)
	case ModeMastered:
		qs = truncate(Shuffle(s.rng, s.mastery.ByMastery(all, mastery.LevelMastered)), count)
	case ModeMixed:
		qs = s.mixed(all, count)
	case ModeReinforcement:
		qs = Sample(s.rng, s.weighted(all), count)
	default:
		return Selection{}
	}
	return Selection{Questions: qs}
}

func (s *Selector) review(all []question.Question, count int) []question.Question {
	pool := s.mastery.ByMastery(all, mastery.LevelReview)
	if len(pool) < count {
		pool = append(pool, s.mastery.WeakOrUnseen(all)...)
	}
	return truncate(Shuffle(s.rng, pool), count)
}

func (s *Selector) mixed(all []question.Question, count int) []question.Question {
	weakN, reviewN, masteredN := MixedQuota(count)

	out := make([]question.Question, 0, count)
	out = append(out, truncate(Shuffle(s.rng, s.mastery.WeakOrUnseen(all)), weakN)...)
	out = append(out, truncate(Shuffle(s.rng, s.mastery.ByMastery(all, mastery.LevelReview)), reviewN)...)
	out = append(out, truncate(Shuffle(s.rng, s.mastery.ByMastery(all, mastery.LevelMastered)), masteredN)...)
	return truncate(Shuffle(s.rng, out), count)
}

func (s *Selector) weighted(all []question.Question) []Weighted[question.Question] {
	pool := make([]Weighted[question.Question], len(all))
	for i, q := range all {
		stat, seen := s.mastery.Stat(q.ID)
		pool[i] = Weighted[question.Question]{Item: q, Weight: Weight(stat, seen)}
	}
	return pool
}

func (s *Selector) exam(all []question.Question) Selection {
	start := 0
	if s.cursor != nil {
		start = s.cursor.NextStartIndex()
	}
	n := s.opts.ExamQuestionCount
	if start < 0 || start+n > len(all) {
		start = 0
	}
	return Selection{
		Questions: Block(all, start, n),
		TimeLimit: s.opts.ExamDuration,
	}
}

// Weight is the reinforcement weight of a question: 2 when unseen,
// otherwise max(1, incorrect*3 - correct), doubled while weak.
func Weight(stat mastery.QuestionStat, seen bool) int {
	if !seen {
		return 2
	}
	w := max(1, stat.Incorrect*3-stat.Correct)
	if stat.Mastery == mastery.LevelWeak {
		w *= 2
	}
	return w
}

// MixedQuota splits count 50/30/20 across weak-or-unseen, review and
// mastered. The first two shares round up; mastered takes the remainder.
// The shares always sum to count.
func MixedQuota(count int) (weak, review, mastered int) {
	if count <= 0 {
		return 0, 0, 0
	}
	weak = (count*5 + 9) / 10
	review = min((count*3+9)/10, count-weak)
	mastered = count - weak - review
	return weak, review, mastered
}

// Block returns a copy of up to size questions of all starting at start.
func Block(all []question.Question, start, size int) []question.Question {
	if start < 0 || start >= len(all) || size <= 0 {
		return []question.Question{}
	}
	end := min(start+size, len(all))
	out := make([]question.Question, end-start)
	copy(out, all[start:end])
	return out
}

func truncate(qs []question.Question, n int) []question.Question {
	if len(qs) > n {
		return qs[:n]
	}
	return qs
}

// Sequential returns the normal-mode block at cursor, restarting from the
// first question once the cursor has run past the end.
func Sequential(all []question.Question, cursor, size int) (start int, qs []question.Question) {
	if cursor < 0 || cursor >= len(all) {
		cursor = 0
	}
	return cursor, Block(all, cursor, size)
}
