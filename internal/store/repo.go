package store

import (
	"context"
	"time"
)

// Key names one of a user's independently stored state records.
type Key string

const (
	KeyQuestionStats Key = "question_stats"
	KeyStreak        Key = "streak"
	KeyUsage         Key = "usage"
	KeyTier          Key = "tier"
	KeyProgress      Key = "progress"
)

// QueryOpts configures session history queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // most recent N results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AnswerRecord captures one answered question inside a session.
type AnswerRecord struct {
	QuestionID       int      `json:"questionId"`
	IsCorrect        bool     `json:"isCorrect"`
	SelectedLetters  []string `json:"selectedLetters"`
	CorrectLetters   []string `json:"correctLetters"`
	TimeTakenSeconds float64  `json:"timeTakenSeconds"`
}

// SessionRecord is an archived, immutable session history entry.
type SessionRecord struct {
	ID         string
	Sequence   int64
	Timestamp  time.Time
	Mode       string
	Score      int
	Total      int
	StartIndex int
	EndIndex   int
	IsRedo     bool
	Answers    []AnswerRecord
}

// Write is a set of record replacements and an optional session entry that
// are persisted together or not at all.
type Write struct {
	Records map[Key]any
	Session *SessionRecord
}

// StateRepo persists one user's study state. Implementations isolate every
// operation to the user the repo was created for.
type StateRepo interface {
	// Load decodes the record stored under key into dst.
	// It reports false when no usable record exists.
	Load(ctx context.Context, key Key, dst any) (bool, error)

	// Apply persists w atomically. The session's Sequence is assigned by
	// the repo when zero.
	Apply(ctx context.Context, w Write) error

	// Sessions returns archived sessions in chronological order.
	Sessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// Reset deletes every record and session belonging to the user.
	Reset(ctx context.Context) error
}

// Put stores a single record.
func Put(ctx context.Context, repo StateRepo, key Key, v any) error {
	return repo.Apply(ctx, Write{Records: map[Key]any{key: v}})
}
