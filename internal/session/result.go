// Package session records completed practice sessions and keeps the
// user's progress log.
package session

import (
	"strings"
	"time"

	"github.com/abhisek/netquiz/internal/practice"
	"github.com/abhisek/netquiz/internal/store"
)

// Answer is the outcome of one question within a session.
type Answer struct {
	QuestionID       int
	IsCorrect        bool
	SelectedLetters  []string
	CorrectLetters   []string
	TimeTakenSeconds float64
}

// Result is a completed session. It is immutable once committed.
type Result struct {
	ID          string
	Mode        practice.Mode
	Score       int
	Total       int
	StartIndex  int
	EndIndex    int
	IsRedo      bool
	Answers     []Answer
	CompletedAt time.Time
}

// Percent returns the score as a whole percentage, 0 for an empty session.
func (r Result) Percent() int {
	if r.Total <= 0 {
		return 0
	}
	return (r.Score*100 + r.Total/2) / r.Total
}

// Entry is an archived session read back from history.
type Entry struct {
	Result
	Sequence int64
}

// normalize fills the aggregate from the answers when the caller left it
// empty.
func (r Result) normalize() Result {
	if r.Total == 0 && len(r.Answers) > 0 {
		r.Total = len(r.Answers)
		r.Score = 0
		for _, a := range r.Answers {
			if a.IsCorrect {
				r.Score++
			}
		}
	}
	if r.Mode == "" {
		r.Mode = practice.ModeNormal
	}
	return r
}

func toRecord(r Result) store.SessionRecord {
	answers := make([]store.AnswerRecord, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = store.AnswerRecord{
			QuestionID:       a.QuestionID,
			IsCorrect:        a.IsCorrect,
			SelectedLetters:  a.SelectedLetters,
			CorrectLetters:   a.CorrectLetters,
			TimeTakenSeconds: a.TimeTakenSeconds,
		}
	}
	return store.SessionRecord{
		ID:         r.ID,
		Timestamp:  r.CompletedAt,
		Mode:       string(r.Mode),
		Score:      r.Score,
		Total:      r.Total,
		StartIndex: r.StartIndex,
		EndIndex:   r.EndIndex,
		IsRedo:     r.IsRedo,
		Answers:    answers,
	}
}

func fromRecord(rec store.SessionRecord) Entry {
	answers := make([]Answer, len(rec.Answers))
	for i, a := range rec.Answers {
		answers[i] = Answer{
			QuestionID:       a.QuestionID,
			IsCorrect:        a.IsCorrect,
			SelectedLetters:  a.SelectedLetters,
			CorrectLetters:   a.CorrectLetters,
			TimeTakenSeconds: a.TimeTakenSeconds,
		}
	}
	return Entry{
		Sequence: rec.Sequence,
		Result: Result{
			ID:          rec.ID,
			Mode:        practice.Mode(rec.Mode),
			Score:       rec.Score,
			Total:       rec.Total,
			StartIndex:  rec.StartIndex,
			EndIndex:    rec.EndIndex,
			IsRedo:      rec.IsRedo,
			Answers:     answers,
			CompletedAt: rec.Timestamp,
		},
	}
}

func joinLetters(letters []string) string {
	return strings.Join(letters, ", ")
}
