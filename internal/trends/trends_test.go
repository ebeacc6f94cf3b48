package trends_test

import (
	"testing"
	"time"

	"github.com/example/vocabmastery/internal/trends"
	"github.com/example/vocabmastery/pkg/models"
)

func snap(taken string, practiced, belowZero, zeroToTwo, aboveTwo, mastered int) models.ScoreSnapshot {
	t, err := time.Parse(time.RFC3339, taken)
	if err != nil {
		panic(err)
	}
	return models.ScoreSnapshot{
		TakenAt:        t,
		TotalPracticed: practiced,
		BelowZero:      belowZero,
		ZeroToTwo:      zeroToTwo,
		AboveTwo:       aboveTwo,
		Mastered:       mastered,
	}
}

func TestClampDays(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, trends.DefaultWindowDays},
		{-3, trends.DefaultWindowDays},
		{1, 1},
		{7, 7},
		{31, 31},
		{32, trends.MaxWindowDays},
		{365, trends.MaxWindowDays},
	}
	for _, tc := range cases {
		if got := trends.ClampDays(tc.in); got != tc.want {
			t.Errorf("ClampDays(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestBuild_SparseSnapshotsZeroFill(t *testing.T) {
	// Snapshots on Jan 1 and Jan 3; Jan 2 has no data.
	snapshots := []models.ScoreSnapshot{
		snap("2024-01-01T10:00:00Z", 5, 2, 2, 1, 0),
		snap("2024-01-03T18:00:00Z", 9, 3, 4, 2, 0),
	}
	end := time.Date(2024, 1, 3, 23, 0, 0, 0, time.UTC)

	stats := trends.Build(snapshots, end, 3)
	if len(stats) != 3 {
		t.Fatalf("days = %d, want 3", len(stats))
	}

	// No baseline before the window: the first represented day reports
	// its absolute counts as the delta.
	if stats[0].Day != "2024-01-01" || stats[0].Practiced != 5 {
		t.Errorf("day 1 = %+v, want practiced 5", stats[0])
	}
	if stats[1].Day != "2024-01-02" || stats[1] != (models.DayStat{Day: "2024-01-02"}) {
		t.Errorf("day 2 = %+v, want all zero", stats[1])
	}
	if stats[2].Day != "2024-01-03" || stats[2].Practiced != 4 {
		t.Errorf("day 3 = %+v, want practiced 4", stats[2])
	}
	if stats[2].BelowZero != 1 || stats[2].AboveTwo != 1 {
		t.Errorf("day 3 deltas = %d/%d, want 1/1", stats[2].BelowZero, stats[2].AboveTwo)
	}
	if stats[2].TotalPracticed != 9 || stats[2].TotalMastered != 0 {
		t.Errorf("day 3 totals = %+v", stats[2])
	}
}

func TestBuild_BaselineBeforeWindow(t *testing.T) {
	// The Dec 31 snapshot sits outside the 3-day window but anchors the
	// first in-window delta.
	snapshots := []models.ScoreSnapshot{
		snap("2023-12-31T20:00:00Z", 3, 1, 1, 1, 0),
		snap("2024-01-01T10:00:00Z", 5, 2, 2, 1, 0),
	}
	end := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	stats := trends.Build(snapshots, end, 3)
	if stats[0].Practiced != 2 {
		t.Errorf("day 1 practiced = %d, want delta 2 over baseline", stats[0].Practiced)
	}
	if stats[0].BelowZero != 1 || stats[0].AboveTwo != 0 {
		t.Errorf("day 1 deltas = %d/%d, want 1/0", stats[0].BelowZero, stats[0].AboveTwo)
	}
}

func TestBuild_LatestSnapshotOfDayWins(t *testing.T) {
	snapshots := []models.ScoreSnapshot{
		snap("2024-01-01T08:00:00Z", 4, 1, 2, 1, 0),
		snap("2024-01-01T19:00:00Z", 6, 2, 3, 1, 0),
	}
	end := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)

	stats := trends.Build(snapshots, end, 1)
	if len(stats) != 1 {
		t.Fatalf("days = %d, want 1", len(stats))
	}
	if stats[0].TotalPracticed != 6 || stats[0].Practiced != 6 {
		t.Errorf("day = %+v, want evening snapshot (total 6)", stats[0])
	}
}

func TestBuild_NegativeDeltasClampToZero(t *testing.T) {
	// Counts can shrink when terms are deleted; deltas never go negative.
	snapshots := []models.ScoreSnapshot{
		snap("2024-01-01T10:00:00Z", 8, 4, 2, 2, 0),
		snap("2024-01-02T10:00:00Z", 6, 2, 2, 2, 0),
	}
	end := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	stats := trends.Build(snapshots, end, 2)
	if stats[1].Practiced != 0 || stats[1].BelowZero != 0 {
		t.Errorf("shrinking day deltas = %+v, want zeros", stats[1])
	}
	if stats[1].TotalPracticed != 6 {
		t.Errorf("totals must stay absolute: %+v", stats[1])
	}
}

func TestBuild_NoSnapshots(t *testing.T) {
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	stats := trends.Build(nil, end, 7)
	if len(stats) != 7 {
		t.Fatalf("days = %d, want 7", len(stats))
	}
	for _, stat := range stats {
		if stat.Practiced != 0 || stat.TotalPracticed != 0 {
			t.Errorf("day %s not zero: %+v", stat.Day, stat)
		}
	}
	if stats[0].Day != "2024-01-01" || stats[6].Day != "2024-01-07" {
		t.Errorf("window bounds = %s..%s", stats[0].Day, stats[6].Day)
	}
}
