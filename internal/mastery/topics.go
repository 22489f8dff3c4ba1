package mastery

import "github.com/abhisek/netquiz/internal/question"

// TopicStats aggregates mastery over the questions of one topic.
type TopicStats struct {
	Total     int `json:"total"`
	Attempted int `json:"attempted"`
	Attempts  int `json:"attempts"`
	Correct   int `json:"correct"` // sum of correct answers, not questions
	Mastered  int `json:"mastered"`
	Review    int `json:"review"`
	Weak      int `json:"weak"`
}

// Accuracy returns the fraction of answers in the topic that were correct.
func (t TopicStats) Accuracy() float64 {
	if t.Attempts == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Attempts)
}

// TopicStats groups questions by topic (classifying untagged ones) and
// aggregates their stats.
func (s *Service) TopicStats(questions []question.Question) map[string]*TopicStats {
	topics := make(map[string]*TopicStats)
	for _, q := range questions {
		topic := q.TopicOrClassified()
		ts, ok := topics[topic]
		if !ok {
			ts = &TopicStats{}
			topics[topic] = ts
		}
		ts.Total++

		stat, ok := s.stats[q.ID]
		if !ok {
			continue
		}
		ts.Attempted++
		ts.Attempts += stat.Attempts
		ts.Correct += stat.Correct
		switch stat.Mastery {
		case LevelMastered:
			ts.Mastered++
		case LevelReview:
			ts.Review++
		default:
			ts.Weak++
		}
	}
	return topics
}
