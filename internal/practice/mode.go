// Package practice turns a practice mode into the ordered list of questions
// for one session.
package practice

import "strings"

// Mode identifies a practice strategy.
type Mode string

const (
	ModeNormal        Mode = "normal"
	ModeWeak          Mode = "weak"
	ModeReview        Mode = "review"
	ModeMastered      Mode = "mastered"
	ModeMixed         Mode = "mixed"
	ModeReinforcement Mode = "reinforcement"
	ModeExam          Mode = "exam"
)

// Info describes a mode for menus.
type Info struct {
	Mode        Mode
	Label       string
	Icon        string
	Description string
}

var catalogue = []Info{
	{ModeNormal, "Normal (Sequential)", "▶", "Questions in order, 10 per session"},
	{ModeWeak, "Weak Areas", "🔴", "Focus on questions you get wrong"},
	{ModeReview, "Review", "🟡", "Questions you sometimes get right"},
	{ModeMastered, "Mastered", "🟢", "Confidence check on strong areas"},
	{ModeMixed, "Mixed Practice", "🔀", "Blend of all mastery levels"},
	{ModeReinforcement, "Reinforcement", "🔁", "Weighted toward frequently wrong questions"},
	{ModeExam, "Exam Simulation", "🎯", "Timed, 60 questions, no peeking"},
}

// Modes returns every mode in menu order.
func Modes() []Info {
	out := make([]Info, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup returns the catalogue entry for m.
func Lookup(m Mode) (Info, bool) {
	for _, info := range catalogue {
		if info.Mode == m {
			return info, true
		}
	}
	return Info{}, false
}

// ParseMode resolves a mode name, ignoring case and surrounding space.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Lookup(m); !ok {
		return "", false
	}
	return m, true
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := Lookup(m)
	return ok
}

func (m Mode) String() string { return string(m) }
