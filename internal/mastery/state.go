package mastery

// Level is a question's derived mastery classification.
type Level string

const (
	LevelUnseen   Level = "unseen"
	LevelWeak     Level = "weak"
	LevelReview   Level = "review"
	LevelMastered Level = "mastered"
)

// MasteredStreak is the run of consecutive correct answers that marks a
// question as mastered.
const MasteredStreak = 3

// AllLevels returns the levels in display order.
func AllLevels() []Level {
	return []Level{LevelMastered, LevelReview, LevelWeak, LevelUnseen}
}

// DisplayName returns a human-readable label for the level.
func (l Level) DisplayName() string {
	switch l {
	case LevelMastered:
		return "Mastered"
	case LevelReview:
		return "Review"
	case LevelWeak:
		return "Weak"
	case LevelUnseen:
		return "Unseen"
	default:
		return string(l)
	}
}

// Classify derives the mastery level from a stat. It never returns
// LevelUnseen; absence of a stat is the caller's concern.
func Classify(s QuestionStat) Level {
	if s.Streak >= MasteredStreak {
		return LevelMastered
	}
	if s.Streak >= 1 || (s.Correct > s.Incorrect && s.Attempts >= 2) {
		return LevelReview
	}
	return LevelWeak
}
