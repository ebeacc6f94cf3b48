package models

import "time"

// GradingSession is the immutable header of one submitted grading batch.
// Only the scored flag ever changes after creation, and only false -> true.
type GradingSession struct {
	ID             int64     `json:"id" db:"id"`
	SubmittedAt    time.Time `json:"submitted_at" db:"submitted_at"`
	Article        *string   `json:"article,omitempty" db:"article"`
	TotalTerms     int       `json:"total_terms" db:"total_terms"`
	CorrectTerms   int       `json:"correct_terms" db:"correct_terms"`
	PartialTerms   int       `json:"partial_terms" db:"partial_terms"`
	IncorrectTerms int       `json:"incorrect_terms" db:"incorrect_terms"`
	AvgSimilarity  *float64  `json:"avg_similarity" db:"avg_similarity"`
	Scored         bool      `json:"scored" db:"scored"`
}

// SessionDetail bundles a session header with its result rows
type SessionDetail struct {
	Session GradingSession  `json:"session"`
	Results []SessionResult `json:"results"`
}
