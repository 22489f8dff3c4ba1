package mastery

import "time"

// QuestionStat is the attempt history of one question.
// Attempts always equals Correct + Incorrect, and Mastery always equals
// Classify of the other fields.
type QuestionStat struct {
	Attempts        int       `json:"attempts"`
	Correct         int       `json:"correct"`
	Incorrect       int       `json:"incorrect"`
	Streak          int       `json:"streak"` // signed run of identical outcomes
	Mastery         Level     `json:"mastery"`
	LastAttemptedAt time.Time `json:"lastAttemptedAt"`
}

// Apply returns s updated with one more answer. A correct answer extends
// a positive streak (or starts one at 1); an incorrect answer extends a
// negative streak (or starts one at -1).
func Apply(s QuestionStat, correct bool, at time.Time) QuestionStat {
	s.Attempts++
	if correct {
		s.Correct++
		s.Streak = max(0, s.Streak) + 1
	} else {
		s.Incorrect++
		s.Streak = min(0, s.Streak) - 1
	}
	s.LastAttemptedAt = at
	s.Mastery = Classify(s)
	return s
}
