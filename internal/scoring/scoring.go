// Package scoring holds the pure numeric rules of the mastery engine:
// the bounded delta formula applied per grading result and the similarity
// buckets used to classify session results.
package scoring

import "math"

// Similarity thresholds used to bucket grading results.
const (
	// CorrectThreshold is the minimum similarity counted as fully correct.
	CorrectThreshold = 0.85
	// PartialThreshold is the minimum similarity counted as partially
	// correct. It doubles as the cutoff for a record's correct_count.
	PartialThreshold = 0.6
	// MaxDelta bounds how far a single submission can move a score.
	MaxDelta = 3.0
)

// Bucket labels for a single grading result.
type Bucket int

const (
	Incorrect Bucket = iota
	Partial
	Correct
)

// Delta maps a grading similarity to the bounded score adjustment:
// 4*(s-0.5), clamped to [-MaxDelta, MaxDelta]. Similarity 0 yields -2,
// 0.5 yields 0 and 1 yields +2. A non-finite similarity yields 0 so a
// malformed grader value never moves a score.
func Delta(similarity float64) float64 {
	if !Usable(similarity) {
		return 0
	}
	delta := 4 * (similarity - 0.5)
	if delta > MaxDelta {
		return MaxDelta
	}
	if delta < -MaxDelta {
		return -MaxDelta
	}
	return delta
}

// Usable reports whether a similarity value can participate in scoring.
// Out-of-range values are still usable: the delta clamp bounds them.
func Usable(similarity float64) bool {
	return !math.IsNaN(similarity) && !math.IsInf(similarity, 0)
}

// Classify buckets one result. A nil similarity means the grader produced
// no usable number and the term counts as incorrect.
func Classify(similarity *float64) Bucket {
	if similarity == nil || !Usable(*similarity) {
		return Incorrect
	}
	if *similarity >= CorrectThreshold {
		return Correct
	}
	if *similarity >= PartialThreshold {
		return Partial
	}
	return Incorrect
}

// ClampScore enforces the score floor. There is no ceiling: repeated
// perfect submissions accumulate without bound, separate from the
// mastery sentinel.
func ClampScore(score, floor float64) float64 {
	if score < floor {
		return floor
	}
	return score
}
