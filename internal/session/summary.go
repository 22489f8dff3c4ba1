package session

// AverageScore returns the mean session percentage, rounded, over entries
// with at least one question.
func AverageScore(entries []Entry) int {
	var sum float64
	n := 0
	for _, e := range entries {
		if e.Total <= 0 {
			continue
		}
		sum += float64(e.Score) / float64(e.Total) * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return int(sum/float64(n) + 0.5)
}

// BestSession returns the earliest entry with the highest score ratio.
func BestSession(entries []Entry) (Entry, bool) {
	return pick(entries, func(a, b float64) bool { return a > b })
}

// WorstSession returns the earliest entry with the lowest score ratio.
func WorstSession(entries []Entry) (Entry, bool) {
	return pick(entries, func(a, b float64) bool { return a < b })
}

func pick(entries []Entry, better func(a, b float64) bool) (Entry, bool) {
	var (
		best  Entry
		ratio float64
		found bool
	)
	for _, e := range entries {
		if e.Total <= 0 {
			continue
		}
		r := float64(e.Score) / float64(e.Total)
		if !found || better(r, ratio) {
			best, ratio, found = e, r, true
		}
	}
	return best, found
}
