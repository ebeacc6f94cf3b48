package models

// SessionResult is one graded term inside a session, exactly as supplied
// by the external grader. Similarity is nil when the grader failed to
// produce a usable number for the term.
type SessionResult struct {
	ID             int64    `json:"id" db:"id"`
	SessionID      int64    `json:"session_id" db:"session_id"`
	Term           string   `json:"term" db:"term"`
	Similarity     *float64 `json:"similarity" db:"similarity"`
	StandardAnswer *string  `json:"standard_answer,omitempty" db:"standard_answer"`
	Explanation    *string  `json:"explanation,omitempty" db:"explanation"`
	Context        *string  `json:"context,omitempty" db:"context"`
}
