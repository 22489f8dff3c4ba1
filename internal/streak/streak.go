// Package streak tracks the daily study streak: consecutive calendar days
// with at least one passing session.
package streak

import "time"

// DateLayout is the calendar-day format used for streak dates.
const DateLayout = "2006-01-02"

// State is a user's daily streak record. Dates are DateLayout strings;
// an empty date means none recorded.
type State struct {
	Current          int    `json:"current"`
	Best             int    `json:"best"`
	LastPassDate     string `json:"lastPassDate,omitempty"`
	LastActivityDate string `json:"lastActivityDate,omitempty"`
}

// Passed reports whether score out of total reaches the 70% pass mark.
// A session with no questions never passes.
func Passed(score, total int) bool {
	if total <= 0 {
		return false
	}
	return score*10 >= total*7
}

// Advance returns s updated with one completed session on now's calendar
// day. A second pass on the same day leaves the streak unchanged, and a
// fail on a day that already has a pass keeps that day's credit.
func Advance(s State, score, total int, now time.Time) State {
	today := now.Format(DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(DateLayout)

	switch {
	case Passed(score, total):
		switch s.LastPassDate {
		case today:
		case yesterday, "":
			s.Current++
		default:
			s.Current = 1
		}
		s.LastPassDate = today
		s.Best = max(s.Best, s.Current)
	case s.LastPassDate != today:
		s.Current = 0
	}

	s.LastActivityDate = today
	return s
}

// Milestones are the streak lengths worth calling out.
var milestones = []int{3, 7, 14, 30}

// NextMilestone returns the next streak milestone above current.
func NextMilestone(current int) int {
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 30, every 30 days.
	return ((current / 30) + 1) * 30
}
