package scoring_test

import (
	"math"
	"testing"

	"github.com/example/vocabmastery/internal/scoring"
)

func TestDelta_FixedPoints(t *testing.T) {
	tests := []struct {
		similarity float64
		want       float64
	}{
		{0, -2},
		{0.25, -1},
		{0.5, 0},
		{0.75, 1},
		{1, 2},
		{0.9, 1.6},
		{0.3, -0.8},
	}

	for _, tt := range tests {
		got := scoring.Delta(tt.similarity)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Delta(%v) = %v, want %v", tt.similarity, got, tt.want)
		}
	}
}

func TestDelta_ClampsOutOfRangeInputs(t *testing.T) {
	if got := scoring.Delta(2); got != scoring.MaxDelta {
		t.Errorf("Delta(2) = %v, want %v", got, scoring.MaxDelta)
	}
	if got := scoring.Delta(-1); got != -scoring.MaxDelta {
		t.Errorf("Delta(-1) = %v, want %v", got, -scoring.MaxDelta)
	}
}

func TestDelta_NonFiniteYieldsZero(t *testing.T) {
	for _, s := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := scoring.Delta(s); got != 0 {
			t.Errorf("Delta(%v) = %v, want 0", s, got)
		}
	}
}

func TestDelta_MonotonicallyNonDecreasing(t *testing.T) {
	prev := scoring.Delta(0)
	for s := 0.01; s <= 1.0; s += 0.01 {
		cur := scoring.Delta(s)
		if cur < prev {
			t.Fatalf("Delta not monotonic: Delta(%v) = %v < %v", s, cur, prev)
		}
		prev = cur
	}
}

func TestClassify(t *testing.T) {
	sim := func(v float64) *float64 { return &v }

	tests := []struct {
		name       string
		similarity *float64
		want       scoring.Bucket
	}{
		{"nil similarity", nil, scoring.Incorrect},
		{"exactly correct threshold", sim(0.85), scoring.Correct},
		{"perfect", sim(1), scoring.Correct},
		{"exactly partial threshold", sim(0.6), scoring.Partial},
		{"just below correct", sim(0.84), scoring.Partial},
		{"just below partial", sim(0.59), scoring.Incorrect},
		{"zero", sim(0), scoring.Incorrect},
		{"NaN", sim(math.NaN()), scoring.Incorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoring.Classify(tt.similarity); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	if got := scoring.ClampScore(-10, -4); got != -4 {
		t.Errorf("ClampScore(-10, -4) = %v, want -4", got)
	}
	if got := scoring.ClampScore(7.5, -4); got != 7.5 {
		t.Errorf("ClampScore(7.5, -4) = %v, want 7.5", got)
	}
}
