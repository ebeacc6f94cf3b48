// Package suggest builds deterministic practice sets: a quota of weak
// already-practiced terms, topped up from the non-negative practiced pool
// when weak terms run short, with fresh never-practiced terms filling the
// rest of the request.
package suggest

import (
	"github.com/example/vocabmastery/internal/database"
	"github.com/example/vocabmastery/pkg/models"
)

// MaxSetSize caps both the practiced and total request sizes
const MaxSetSize = 50

// Scheduler selects the next practice set from the score store
type Scheduler struct {
	words *database.WordScoreRepository
}

// NewScheduler creates a new scheduler instance
func NewScheduler() *Scheduler {
	return &Scheduler{words: database.NewWordScoreRepository()}
}

// Suggest returns up to practicedCount weak terms and enough fresh terms
// to reach totalCount. Both counts are clamped to [0, MaxSetSize] and the
// practiced quota never exceeds the total. The result may be shorter than
// requested when the store runs out of matching terms; shortage is never
// an error.
func (s *Scheduler) Suggest(practicedCount, totalCount int, masteryThreshold float64) (*models.Suggestion, error) {
	totalCount = clamp(totalCount, 0, MaxSetSize)
	practicedCount = clamp(practicedCount, 0, MaxSetSize)
	if practicedCount > totalCount {
		practicedCount = totalCount
	}

	practiced, err := s.words.PracticedCandidates(masteryThreshold, practicedCount)
	if err != nil {
		return nil, err
	}

	// Quota shortfall: top up from practiced terms with score >= 0 so a
	// thin weak pool still yields something to review.
	if len(practiced) < practicedCount {
		selected := make([]string, 0, len(practiced))
		for _, rec := range practiced {
			selected = append(selected, rec.Term)
		}
		backfill, err := s.words.BackfillCandidates(selected, practicedCount-len(practiced))
		if err != nil {
			return nil, err
		}
		practiced = append(practiced, backfill...)
	}

	fresh, err := s.words.FreshCandidates(totalCount - len(practiced))
	if err != nil {
		return nil, err
	}

	suggestion := &models.Suggestion{
		Practiced: practiced,
		Fresh:     fresh,
	}
	if suggestion.Practiced == nil {
		suggestion.Practiced = []models.WordRecord{}
	}
	if suggestion.Fresh == nil {
		suggestion.Fresh = []models.WordRecord{}
	}
	return suggestion, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
