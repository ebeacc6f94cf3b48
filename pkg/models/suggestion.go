package models

// Suggestion is a practice set built by the suggestion scheduler:
// weak already-practiced terms first, fresh never-practiced terms after.
type Suggestion struct {
	Practiced []WordRecord `json:"practiced"`
	Fresh     []WordRecord `json:"fresh"`
}
