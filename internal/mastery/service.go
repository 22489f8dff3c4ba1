package mastery

import (
	"context"
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/netquiz/internal/question"
	"github.com/abhisek/netquiz/internal/store"
)

// Counts partitions a question set by mastery level.
type Counts struct {
	Mastered int `json:"mastered"`
	Review   int `json:"review"`
	Weak     int `json:"weak"`
	Unseen   int `json:"unseen"`
}

// Total returns the number of questions counted.
func (c Counts) Total() int {
	return c.Mastered + c.Review + c.Weak + c.Unseen
}

// Service owns the per-question stats of one user. RecordResult is the
// only writer of a QuestionStat.
type Service struct {
	stats map[int]QuestionStat
	repo  store.StateRepo
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a mastery service, loading stats from repo. A failed
// load starts from empty stats. A nil repo keeps state in memory only.
func NewService(ctx context.Context, repo store.StateRepo, log *zap.Logger, now func() time.Time) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	s := &Service{
		stats: make(map[int]QuestionStat),
		repo:  repo,
		log:   log,
		now:   now,
	}
	if repo == nil {
		return s
	}

	var stored map[int]QuestionStat
	ok, err := repo.Load(ctx, store.KeyQuestionStats, &stored)
	if err != nil {
		log.Warn("load question stats", zap.Error(err))
		return s
	}
	if ok {
		s.Replace(stored)
	}
	return s
}

// RecordResult applies one answer to the question's stat, creating it on
// first attempt, persists the stats, and returns the new stat.
func (s *Service) RecordResult(ctx context.Context, questionID int, correct bool) QuestionStat {
	stat := Apply(s.stats[questionID], correct, s.now())
	s.stats[questionID] = stat
	s.persist(ctx)
	return stat
}

// Stat returns the stat for a question and whether one exists.
func (s *Service) Stat(questionID int) (QuestionStat, bool) {
	stat, ok := s.stats[questionID]
	return stat, ok
}

// Level returns the question's level, LevelUnseen when it has no stat.
func (s *Service) Level(questionID int) Level {
	stat, ok := s.stats[questionID]
	if !ok {
		return LevelUnseen
	}
	return stat.Mastery
}

// Counts partitions questions by level, counting missing stats as unseen.
func (s *Service) Counts(questions []question.Question) Counts {
	var c Counts
	for _, q := range questions {
		switch s.Level(q.ID) {
		case LevelMastered:
			c.Mastered++
		case LevelReview:
			c.Review++
		case LevelWeak:
			c.Weak++
		default:
			c.Unseen++
		}
	}
	return c
}

// ByMastery returns the questions whose level is exactly level, in input
// order. LevelWeak excludes unseen questions; use WeakOrUnseen for the
// inclusive pool.
func (s *Service) ByMastery(questions []question.Question, level Level) []question.Question {
	out := []question.Question{}
	for _, q := range questions {
		if s.Level(q.ID) == level {
			out = append(out, q)
		}
	}
	return out
}

// WeakOrUnseen returns the questions that are weak or have never been
// attempted, in input order.
func (s *Service) WeakOrUnseen(questions []question.Question) []question.Question {
	out := []question.Question{}
	for _, q := range questions {
		if l := s.Level(q.ID); l == LevelWeak || l == LevelUnseen {
			out = append(out, q)
		}
	}
	return out
}

// Snapshot returns a copy of all stats.
func (s *Service) Snapshot() map[int]QuestionStat {
	return maps.Clone(s.stats)
}

// Replace swaps in stats without persisting, re-deriving every mastery
// level from its counters.
func (s *Service) Replace(stats map[int]QuestionStat) {
	next := make(map[int]QuestionStat, len(stats))
	for id, stat := range stats {
		stat.Mastery = Classify(stat)
		next[id] = stat
	}
	s.stats = next
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}
	// Persistence failures lose the write but never the in-memory result.
	if err := store.Put(ctx, s.repo, store.KeyQuestionStats, s.stats); err != nil {
		s.log.Warn("save question stats", zap.Error(err))
	}
}
