package models

import "time"

// ScoreSnapshot is an absolute point-in-time count of how many practiced
// terms fall into each score bucket, keyed to the scored session that
// triggered it. At most one snapshot exists per session.
type ScoreSnapshot struct {
	ID             int64     `json:"id" db:"id"`
	SessionID      int64     `json:"session_id" db:"session_id"`
	TakenAt        time.Time `json:"taken_at" db:"taken_at"`
	TotalPracticed int       `json:"total_practiced" db:"total_practiced"`
	BelowZero      int       `json:"below_zero" db:"below_zero"`
	ZeroToTwo      int       `json:"zero_to_two" db:"zero_to_two"`
	AboveTwo       int       `json:"above_two" db:"above_two"`
	Mastered       int       `json:"mastered" db:"mastered"`
}
