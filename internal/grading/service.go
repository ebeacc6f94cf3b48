// Package grading orchestrates one submission round: recording the batch
// as a session, committing it to the score store, retaining contexts and
// snapshotting the resulting distribution. The update rule itself lives in
// the repositories; this package only sequences them.
package grading

import (
	"time"

	"github.com/example/vocabmastery/internal/database"
	"github.com/example/vocabmastery/pkg/models"
)

// Service ties the session recorder, score store, context retention and
// snapshot taker together behind the two submission entry points.
type Service struct {
	words     *database.WordScoreRepository
	contexts  *database.ContextRepository
	sessions  *database.SessionRepository
	snapshots *database.SnapshotRepository
}

// NewService creates a new service instance
func NewService() *Service {
	return &Service{
		words:     database.NewWordScoreRepository(),
		contexts:  database.NewContextRepository(),
		sessions:  database.NewSessionRepository(),
		snapshots: database.NewSnapshotRepository(),
	}
}

// Submit records a grading batch as a new session. With scored true the
// batch is also committed: scores applied, contexts retained, snapshot
// taken, session marked scored. With scored false the session is recorded
// for history only and can be committed later via ScoreSession.
func (s *Service) Submit(results []models.SessionResult, article *string, scored bool) (*models.GradingSession, error) {
	now := time.Now().UTC()

	session, err := s.sessions.Record(results, article, now)
	if err != nil {
		return nil, err
	}
	if !scored {
		return session, nil
	}

	if err := s.commit(session.ID, now); err != nil {
		return nil, err
	}
	return s.sessions.Get(session.ID)
}

// ScoreSession commits a previously recorded session to the score store.
// Returns ErrSessionScored if it was already committed and ErrNotFound on
// an unknown id.
func (s *Service) ScoreSession(id int64) (*models.GradingSession, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Scored {
		return nil, database.ErrSessionScored
	}

	if err := s.commit(id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.sessions.Get(id)
}

// commit applies a recorded session's results to mastery totals. It works
// from the persisted rows, not the caller's input, so scoring a session
// always means exactly what was recorded.
func (s *Service) commit(sessionID int64, now time.Time) error {
	detail, err := s.sessions.GetDetail(sessionID)
	if err != nil {
		return err
	}

	if err := s.words.ApplyBatch(detail.Results, now); err != nil {
		return err
	}
	if err := s.contexts.AppendBatch(detail.Results, detail.Session.Article, now); err != nil {
		return err
	}

	terms := make([]string, 0, len(detail.Results))
	seen := make(map[string]bool, len(detail.Results))
	for _, res := range detail.Results {
		if !seen[res.Term] {
			seen[res.Term] = true
			terms = append(terms, res.Term)
		}
	}
	if _, err := s.snapshots.Take(sessionID, now, terms); err != nil {
		return err
	}

	return s.sessions.MarkScored(sessionID)
}

// Records returns the score records for the given terms in input order,
// each carrying its most recent contexts.
func (s *Service) Records(terms []string) ([]models.WordRecord, error) {
	records, err := s.words.Get(terms)
	if err != nil {
		return nil, err
	}
	return s.attachContexts(records)
}

// Vocabulary returns every tracked record with recent contexts attached,
// ordered case-insensitively by term.
func (s *Service) Vocabulary() ([]models.WordRecord, error) {
	records, err := s.words.All()
	if err != nil {
		return nil, err
	}
	return s.attachContexts(records)
}

func (s *Service) attachContexts(records []models.WordRecord) ([]models.WordRecord, error) {
	if len(records) == 0 {
		return records, nil
	}
	terms := make([]string, len(records))
	for i, rec := range records {
		terms[i] = rec.Term
	}
	recent, err := s.contexts.Recent(terms, database.RecentContextLimit)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].RecentContexts = recent[records[i].Term]
	}
	return records, nil
}
