package subscription

import "time"

// MonthLayout formats a ledger month.
const MonthLayout = "2006-01"

// DefaultFreeMonthlyLimit is the free tier's questions per calendar month.
const DefaultFreeMonthlyLimit = 20

// Ledger is the stored monthly usage counter.
type Ledger struct {
	Month              string `json:"month"`
	QuestionsThisMonth int    `json:"questionsThisMonth"`
}

// Usage is the ledger as seen in the current month.
type Usage struct {
	QuestionsThisMonth int
	Limit              int
	Month              string
}

// Remaining returns the questions left this month, never negative.
func (u Usage) Remaining() int {
	return max(0, u.Limit-u.QuestionsThisMonth)
}

// CurrentUsage views l from now's month. A ledger from another month reads
// as zero; the stored ledger is left alone.
func CurrentUsage(l Ledger, limit int, now time.Time) Usage {
	month := now.Format(MonthLayout)
	u := Usage{Limit: limit, Month: month}
	if l.Month == month {
		u.QuestionsThisMonth = max(0, l.QuestionsThisMonth)
	}
	return u
}

// Debit returns the ledger after n more questions in now's month,
// materializing any pending month reset.
func Debit(l Ledger, n int, now time.Time) Ledger {
	u := CurrentUsage(l, 0, now)
	return Ledger{Month: u.Month, QuestionsThisMonth: u.QuestionsThisMonth + n}
}
