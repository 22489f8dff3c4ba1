package session

import (
	"slices"
	"time"

	"github.com/abhisek/netquiz/internal/practice"
	"github.com/abhisek/netquiz/internal/question"
)

// DefaultMaxIncorrect bounds the incorrect answers log.
const DefaultMaxIncorrect = 100

// IncorrectEntry is the most recent wrong answer to one question.
type IncorrectEntry struct {
	QuestionID    int       `json:"questionId"`
	QuestionText  string    `json:"questionText"`
	UserAnswer    string    `json:"userAnswer"`
	CorrectAnswer string    `json:"correctAnswer"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// Progress is the user's session bookkeeping.
type Progress struct {
	TotalQuizzes   int              `json:"totalQuizzes"`
	NextStartIndex int              `json:"nextStartIndex"`
	IncorrectLog   []IncorrectEntry `json:"incorrectLog"`
}

// advance returns p after r. The sequential cursor moves only for
// non-redo normal sessions. The incorrect log holds at most limit entries,
// newest last; a repeated question replaces its old entry.
func (p Progress) advance(r Result, index map[int]question.Question, limit int) Progress {
	next := Progress{
		TotalQuizzes:   p.TotalQuizzes + 1,
		NextStartIndex: p.NextStartIndex,
		IncorrectLog:   slices.Clone(p.IncorrectLog),
	}
	if r.Mode == practice.ModeNormal && !r.IsRedo {
		next.NextStartIndex = r.EndIndex
	}

	for _, a := range r.Answers {
		if a.IsCorrect {
			continue
		}
		next.IncorrectLog = slices.DeleteFunc(next.IncorrectLog, func(e IncorrectEntry) bool {
			return e.QuestionID == a.QuestionID
		})
		next.IncorrectLog = append(next.IncorrectLog, incorrectEntry(a, index, r.CompletedAt))
	}
	if limit > 0 && len(next.IncorrectLog) > limit {
		next.IncorrectLog = next.IncorrectLog[len(next.IncorrectLog)-limit:]
	}
	return next
}

func incorrectEntry(a Answer, index map[int]question.Question, at time.Time) IncorrectEntry {
	e := IncorrectEntry{
		QuestionID:    a.QuestionID,
		UserAnswer:    joinLetters(a.SelectedLetters),
		CorrectAnswer: joinLetters(a.CorrectLetters),
		RecordedAt:    at,
	}
	if e.UserAnswer == "" {
		e.UserAnswer = "No answer"
	}
	if q, ok := index[a.QuestionID]; ok {
		e.QuestionText = q.Text
		if e.CorrectAnswer == "" {
			e.CorrectAnswer = joinLetters(q.CorrectAnswers)
		}
	}
	return e
}
