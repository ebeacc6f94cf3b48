package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/vocabmastery/internal/scoring"
	"github.com/example/vocabmastery/pkg/models"
)

// DefaultSessionListLimit bounds how many sessions a listing returns when
// the caller doesn't ask for a specific amount.
const DefaultSessionListLimit = 100

// SessionRepository durably records grading batches as immutable sessions
// with per-term result rows.
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Record normalizes and persists one grading batch: the session header and
// all result rows become visible together or not at all. Entries with an
// empty term are dropped; if nothing valid remains it returns
// ErrEmptySession. Each result is bucketed into correct/partial/incorrect
// and avg_similarity is the mean of the non-nil similarities only.
func (r *SessionRepository) Record(results []models.SessionResult, article *string, submittedAt time.Time) (*models.GradingSession, error) {
	normalized := normalizeResults(results)
	if len(normalized) == 0 {
		return nil, ErrEmptySession
	}

	session := models.GradingSession{
		SubmittedAt: submittedAt,
		Article:     article,
		TotalTerms:  len(normalized),
	}

	var simSum float64
	var simCount int
	for _, res := range normalized {
		switch scoring.Classify(res.Similarity) {
		case scoring.Correct:
			session.CorrectTerms++
		case scoring.Partial:
			session.PartialTerms++
		default:
			session.IncorrectTerms++
		}
		if res.Similarity != nil {
			simSum += *res.Similarity
			simCount++
		}
	}
	if simCount > 0 {
		avg := simSum / float64(simCount)
		session.AvgSimilarity = &avg
	}

	tx, err := DB.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO grading_sessions (
				submitted_at, article, total_terms, correct_terms,
				partial_terms, incorrect_terms, avg_similarity, scored
			) VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
			RETURNING id
		`
		err = tx.QueryRow(
			query,
			session.SubmittedAt,
			session.Article,
			session.TotalTerms,
			session.CorrectTerms,
			session.PartialTerms,
			session.IncorrectTerms,
			session.AvgSimilarity,
		).Scan(&session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %v", err)
		}
	} else {
		// SQLite path: no RETURNING, take the last insert id
		query := `
			INSERT INTO grading_sessions (
				submitted_at, article, total_terms, correct_terms,
				partial_terms, incorrect_terms, avg_similarity, scored
			) VALUES (?, ?, ?, ?, ?, ?, ?, FALSE)
		`
		result, err := tx.Exec(
			query,
			session.SubmittedAt,
			session.Article,
			session.TotalTerms,
			session.CorrectTerms,
			session.PartialTerms,
			session.IncorrectTerms,
			session.AvgSimilarity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %v", err)
		}
		session.ID, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get last insert ID: %v", err)
		}
	}

	insert := tx.Rebind(`
		INSERT INTO session_results (
			session_id, term, similarity, standard_answer, explanation, context
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	for _, res := range normalized {
		_, err := tx.Exec(insert, session.ID, res.Term, res.Similarity, res.StandardAnswer, res.Explanation, res.Context)
		if err != nil {
			return nil, fmt.Errorf("failed to create session result: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %v", err)
	}
	return &session, nil
}

// normalizeResults trims terms, drops entries without one and nils out
// similarities the grader failed to produce as finite numbers.
func normalizeResults(results []models.SessionResult) []models.SessionResult {
	normalized := make([]models.SessionResult, 0, len(results))
	for _, res := range results {
		res.Term = strings.TrimSpace(res.Term)
		if res.Term == "" {
			continue
		}
		if res.Similarity != nil && !scoring.Usable(*res.Similarity) {
			res.Similarity = nil
		}
		normalized = append(normalized, res)
	}
	return normalized
}

// List returns session headers, newest first
func (r *SessionRepository) List(limit int) ([]models.GradingSession, error) {
	if limit <= 0 || limit > DefaultSessionListLimit {
		limit = DefaultSessionListLimit
	}
	var sessions []models.GradingSession
	query := DB.Rebind("SELECT * FROM grading_sessions ORDER BY submitted_at DESC, id DESC LIMIT ?")
	if err := DB.Select(&sessions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %v", err)
	}
	return sessions, nil
}

// Get returns one session header by id
func (r *SessionRepository) Get(id int64) (*models.GradingSession, error) {
	var session models.GradingSession
	err := DB.Get(&session, DB.Rebind("SELECT * FROM grading_sessions WHERE id = ?"), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %v", err)
	}
	return &session, nil
}

// GetDetail returns a session header together with its result rows.
// Returns ErrNotFound on an unknown id.
func (r *SessionRepository) GetDetail(id int64) (*models.SessionDetail, error) {
	session, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	var results []models.SessionResult
	query := DB.Rebind("SELECT * FROM session_results WHERE session_id = ? ORDER BY id ASC")
	if err := DB.Select(&results, query, id); err != nil {
		return nil, fmt.Errorf("failed to get session results: %v", err)
	}

	return &models.SessionDetail{Session: *session, Results: results}, nil
}

// MarkScored flips the scored flag false -> true, exactly once. A second
// attempt returns ErrSessionScored; an unknown id returns ErrNotFound.
func (r *SessionRepository) MarkScored(id int64) error {
	result, err := DB.Exec(DB.Rebind("UPDATE grading_sessions SET scored = TRUE WHERE id = ? AND scored = FALSE"), id)
	if err != nil {
		return fmt.Errorf("failed to mark session scored: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		if _, err := r.Get(id); err != nil {
			return err
		}
		return ErrSessionScored
	}
	return nil
}

// Delete removes a session; its result rows and snapshot cascade.
// Returns ErrNotFound on an unknown id.
func (r *SessionRepository) Delete(id int64) error {
	result, err := DB.Exec(DB.Rebind("DELETE FROM grading_sessions WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
