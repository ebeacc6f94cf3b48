package models

import "time"

// Score constants for the mastery state machine.
const (
	// MinScore is the floor a score can never drop below.
	MinScore = -4.0
	// MasteredScore is the sentinel value for explicitly mastered terms.
	// It is never produced by the grading formula itself.
	MasteredScore = 999.0
)

// WordRecord tracks a learner's running mastery of a single term
type WordRecord struct {
	ID             int64         `json:"id" db:"id"`
	Term           string        `json:"term" db:"term"`
	Meaning        *string       `json:"meaning" db:"meaning"`
	Score          float64       `json:"score" db:"score"`
	Submissions    int           `json:"submissions" db:"submissions"`
	LastSubmission *time.Time    `json:"last_submission" db:"last_submission"`
	CorrectCount   int           `json:"correct_count" db:"correct_count"`
	IncorrectCount int           `json:"incorrect_count" db:"incorrect_count"`
	RecentContexts []WordContext `json:"recent_contexts,omitempty" db:"-"`
}

// Mastered reports whether the record carries the mastery sentinel
func (w *WordRecord) Mastered() bool {
	return w.Score >= MasteredScore
}
