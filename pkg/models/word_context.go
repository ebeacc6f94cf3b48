package models

import "time"

// WordContext is one example sentence recorded for a term
type WordContext struct {
	ID        int64     `json:"id" db:"id"`
	Term      string    `json:"term" db:"term"`
	Sentence  string    `json:"sentence" db:"sentence"`
	Article   *string   `json:"article,omitempty" db:"article"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
