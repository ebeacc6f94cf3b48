package models

// DayStat is one reconstructed calendar day of practice activity.
// The practiced/below_zero/above_two fields are per-day deltas derived
// from neighbouring snapshots; the total_* fields are the absolute counts
// of that day's representative snapshot. A day without any snapshot is
// reported with every field zero.
type DayStat struct {
	Day            string `json:"day"`
	Practiced      int    `json:"practiced"`
	BelowZero      int    `json:"below_zero"`
	AboveTwo       int    `json:"above_two"`
	TotalPracticed int    `json:"total_practiced"`
	TotalBelowZero int    `json:"total_below_zero"`
	TotalAboveTwo  int    `json:"total_above_two"`
	TotalZeroToTwo int    `json:"total_zero_to_two"`
	TotalMastered  int    `json:"total_mastered"`
}
