// Package trends reconstructs dense per-day practice activity from the
// sparse sequence of score snapshots. Snapshots are absolute cumulative
// counts (one per scored session), so daily activity is recovered by
// differencing each day's representative snapshot against the previous
// represented day.
package trends

import (
	"time"

	"github.com/example/vocabmastery/internal/database"
	"github.com/example/vocabmastery/pkg/models"
)

const (
	// DefaultWindowDays is the window used when the caller passes no
	// usable day count.
	DefaultWindowDays = 7
	// MaxWindowDays caps how far back a trend query may reach.
	MaxWindowDays = 31

	dayLayout = "2006-01-02"
)

// Reconstructor derives daily practice deltas from stored snapshots
type Reconstructor struct {
	snapshots *database.SnapshotRepository
}

// NewReconstructor creates a new reconstructor instance
func NewReconstructor() *Reconstructor {
	return &Reconstructor{snapshots: database.NewSnapshotRepository()}
}

// DailyDeltas returns one DayStat per calendar day for the days-long
// window ending today (relative to now, in UTC).
func (r *Reconstructor) DailyDeltas(days int, now time.Time) ([]models.DayStat, error) {
	days = ClampDays(days)
	end := dayStart(now)
	cutoff := end.AddDate(0, 0, 1)

	snapshots, err := r.snapshots.TakenBefore(cutoff)
	if err != nil {
		return nil, err
	}
	return Build(snapshots, end, days), nil
}

// ClampDays normalizes a requested window length: non-positive requests
// fall back to the default, oversized requests are capped.
func ClampDays(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}

// Build walks the window in ascending day order. Each day's representative
// is the latest snapshot taken that day; the baseline is the most recent
// representative strictly before the window, so the first in-window day
// still gets a correct incremental delta. Days without any snapshot emit
// an all-zero row: "no data" and "zero practice" are indistinguishable by
// design. snapshots must be ordered ascending by taken_at.
func Build(snapshots []models.ScoreSnapshot, end time.Time, days int) []models.DayStat {
	end = dayStart(end)
	start := end.AddDate(0, 0, -(days - 1))
	startKey := start.Format(dayLayout)

	// Latest snapshot per day; ascending input means last write wins.
	representative := make(map[string]models.ScoreSnapshot)
	var baseline *models.ScoreSnapshot
	for i := range snapshots {
		snap := snapshots[i]
		key := snap.TakenAt.UTC().Format(dayLayout)
		representative[key] = snap
		if key < startKey {
			baseline = &snapshots[i]
		}
	}

	prev := baseline
	stats := make([]models.DayStat, 0, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		snap, ok := representative[key]
		if !ok {
			stats = append(stats, models.DayStat{Day: key})
			continue
		}

		stat := models.DayStat{
			Day:            key,
			TotalPracticed: snap.TotalPracticed,
			TotalBelowZero: snap.BelowZero,
			TotalAboveTwo:  snap.AboveTwo,
			TotalZeroToTwo: snap.ZeroToTwo,
			TotalMastered:  snap.Mastered,
		}
		if prev == nil {
			// First represented day overall: delta equals the absolute
			stat.Practiced = snap.TotalPracticed
			stat.BelowZero = snap.BelowZero
			stat.AboveTwo = snap.AboveTwo
		} else {
			stat.Practiced = nonNegative(snap.TotalPracticed - prev.TotalPracticed)
			stat.BelowZero = nonNegative(snap.BelowZero - prev.BelowZero)
			stat.AboveTwo = nonNegative(snap.AboveTwo - prev.AboveTwo)
		}
		snapCopy := snap
		prev = &snapCopy
		stats = append(stats, stat)
	}
	return stats
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
