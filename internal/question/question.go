package question

import (
	"slices"
	"strings"
)

// Option is one lettered answer choice.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Question is an immutable quiz item supplied by the question source.
type Question struct {
	ID             int      `json:"id"`
	Text           string   `json:"text"`
	Options        []Option `json:"options"`
	CorrectAnswers []string `json:"correctAnswers"`
	IsMultiSelect  bool     `json:"isMultiSelect"`
	Topic          string   `json:"topic,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
}

// IsCorrect reports whether selected matches the correct letters as a set.
// Letter case and order are ignored.
func (q Question) IsCorrect(selected []string) bool {
	return slices.Equal(normalizeLetters(selected), normalizeLetters(q.CorrectAnswers))
}

// TopicOrClassified returns the explicit topic, or a keyword classification
// of the question text when none was supplied.
func (q Question) TopicOrClassified() string {
	if q.Topic != "" {
		return q.Topic
	}
	return ClassifyTopic(q.Text)
}

// Index maps question IDs to questions.
func Index(questions []Question) map[int]Question {
	idx := make(map[int]Question, len(questions))
	for _, q := range questions {
		idx[q.ID] = q
	}
	return idx
}

func normalizeLetters(letters []string) []string {
	out := make([]string, 0, len(letters))
	for _, l := range letters {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l != "" {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
