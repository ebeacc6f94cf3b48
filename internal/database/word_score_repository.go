package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabmastery/internal/scoring"
	"github.com/example/vocabmastery/pkg/models"
)

// WordScoreRepository owns the per-term mastery state and applies the
// bounded decay/reward update rule. It is the single source of truth for
// scores; sessions and snapshots are an audit log layered on top.
type WordScoreRepository struct{}

// NewWordScoreRepository creates a new repository instance
func NewWordScoreRepository() *WordScoreRepository {
	return &WordScoreRepository{}
}

// ApplyResult applies one grading similarity to a term. An unknown term is
// created with a zeroed record first. The score moves by
// clamp(4*(similarity-0.5), -3, 3) and never drops below MinScore.
// A non-finite similarity is a silent no-op: no row is created or changed
// and the current record (nil if unknown) is returned.
func (r *WordScoreRepository) ApplyResult(term string, similarity float64, now time.Time) (*models.WordRecord, error) {
	if !scoring.Usable(similarity) {
		record, err := r.byTerm(term)
		if err == ErrNotFound {
			return nil, nil
		}
		return record, err
	}

	tx, err := DB.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if err := applyResultTx(tx, term, similarity, now); err != nil {
		return nil, err
	}

	record, err := byTermTx(tx, term)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit score update: %v", err)
	}
	return record, nil
}

// ApplyBatch applies a batch of graded results atomically: all score
// movements become visible together or not at all. Results without a
// usable similarity leave their score untouched, matching the
// single-result rule, but still get a zeroed record created so contexts
// recorded alongside them have a term to reference.
func (r *WordScoreRepository) ApplyBatch(results []models.SessionResult, now time.Time) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, res := range results {
		if res.Similarity != nil && scoring.Usable(*res.Similarity) {
			if err := applyResultTx(tx, res.Term, *res.Similarity, now); err != nil {
				return err
			}
			continue
		}
		if err := ensureTermTx(tx, res.Term); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit score batch: %v", err)
	}
	return nil
}

// applyResultTx performs the insert-if-absent plus relative update inside
// an open transaction. The update is relative (score + delta), so
// concurrent applications for the same term commute.
func applyResultTx(tx *sqlx.Tx, term string, similarity float64, now time.Time) error {
	if err := ensureTermTx(tx, term); err != nil {
		return err
	}

	delta := scoring.Delta(similarity)
	correct := 0
	incorrect := 0
	if similarity >= scoring.PartialThreshold {
		correct = 1
	} else {
		incorrect = 1
	}

	query := tx.Rebind(`
		UPDATE word_scores SET
			score = CASE WHEN score + ? < ? THEN ? ELSE score + ? END,
			submissions = submissions + 1,
			last_submission = ?,
			correct_count = correct_count + ?,
			incorrect_count = incorrect_count + ?
		WHERE term = ?
	`)
	_, err := tx.Exec(query, delta, models.MinScore, models.MinScore, delta, now, correct, incorrect, term)
	if err != nil {
		return fmt.Errorf("failed to apply score update: %v", err)
	}
	return nil
}

// ensureTermTx inserts a zeroed record for the term if it doesn't exist yet
func ensureTermTx(tx *sqlx.Tx, term string) error {
	query := tx.Rebind("INSERT INTO word_scores (term, score) VALUES (?, 0) ON CONFLICT (term) DO NOTHING")
	if _, err := tx.Exec(query, term); err != nil {
		return fmt.Errorf("failed to ensure term: %v", err)
	}
	return nil
}

// MarkMastered stamps a term with the mastery sentinel, bypassing the
// delta formula entirely. The term is created if absent.
func (r *WordScoreRepository) MarkMastered(term string, now time.Time) (*models.WordRecord, error) {
	tx, err := DB.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if err := ensureTermTx(tx, term); err != nil {
		return nil, err
	}

	query := tx.Rebind(`
		UPDATE word_scores SET
			score = ?,
			submissions = submissions + 1,
			correct_count = correct_count + 1,
			last_submission = ?
		WHERE term = ?
	`)
	if _, err := tx.Exec(query, models.MasteredScore, now, term); err != nil {
		return nil, fmt.Errorf("failed to mark term mastered: %v", err)
	}

	record, err := byTermTx(tx, term)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit mastery update: %v", err)
	}
	return record, nil
}

// Reset zeroes a term's score and counters without deleting the term or
// its contexts. The term is created if absent.
func (r *WordScoreRepository) Reset(term string) (*models.WordRecord, error) {
	tx, err := DB.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if err := ensureTermTx(tx, term); err != nil {
		return nil, err
	}

	query := tx.Rebind(`
		UPDATE word_scores SET
			score = 0,
			submissions = 0,
			last_submission = NULL,
			correct_count = 0,
			incorrect_count = 0
		WHERE term = ?
	`)
	if _, err := tx.Exec(query, term); err != nil {
		return nil, fmt.Errorf("failed to reset term: %v", err)
	}

	record, err := byTermTx(tx, term)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reset: %v", err)
	}
	return record, nil
}

// Create inserts a new term with zeroed counters. Returns ErrDuplicateTerm
// if the term already exists (case-sensitive exact match).
func (r *WordScoreRepository) Create(term string, meaning *string) (*models.WordRecord, error) {
	var existing int64
	err := DB.Get(&existing, DB.Rebind("SELECT id FROM word_scores WHERE term = ?"), term)
	if err == nil {
		return nil, ErrDuplicateTerm
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check for existing term: %v", err)
	}

	query := DB.Rebind("INSERT INTO word_scores (term, meaning, score) VALUES (?, ?, 0)")
	if _, err := DB.Exec(query, term, meaning); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTerm
		}
		return nil, fmt.Errorf("failed to create term: %v", err)
	}

	return r.byTerm(term)
}

// Delete removes a term and, through the foreign key, its contexts.
// Reports whether a row was actually removed.
func (r *WordScoreRepository) Delete(term string) (bool, error) {
	result, err := DB.Exec(DB.Rebind("DELETE FROM word_scores WHERE term = ?"), term)
	if err != nil {
		return false, fmt.Errorf("failed to delete term: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %v", err)
	}
	return rows > 0, nil
}

// Get returns the records for the given terms, preserving input order and
// omitting unknown terms. Never errors on missing terms.
func (r *WordScoreRepository) Get(terms []string) ([]models.WordRecord, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT * FROM word_scores WHERE term IN (?)", terms)
	if err != nil {
		return nil, fmt.Errorf("failed to build term query: %v", err)
	}

	var records []models.WordRecord
	if err := DB.Select(&records, DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get terms: %v", err)
	}

	byTerm := make(map[string]models.WordRecord, len(records))
	for _, rec := range records {
		byTerm[rec.Term] = rec
	}

	ordered := make([]models.WordRecord, 0, len(records))
	for _, term := range terms {
		if rec, ok := byTerm[term]; ok {
			ordered = append(ordered, rec)
		}
	}
	return ordered, nil
}

// All returns every record ordered case-insensitively by term
func (r *WordScoreRepository) All() ([]models.WordRecord, error) {
	var records []models.WordRecord
	err := DB.Select(&records, "SELECT * FROM word_scores ORDER BY LOWER(term)")
	if err != nil {
		return nil, fmt.Errorf("failed to get word scores: %v", err)
	}
	return records, nil
}

// PracticedCandidates returns practiced terms below the mastery threshold,
// weakest and least-drilled first, with insertion order as the final
// deterministic tiebreak.
func (r *WordScoreRepository) PracticedCandidates(threshold float64, limit int) ([]models.WordRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	var records []models.WordRecord
	query := DB.Rebind(`
		SELECT * FROM word_scores
		WHERE submissions > 0 AND score < ?
		ORDER BY score ASC, submissions ASC, id ASC
		LIMIT ?
	`)
	if err := DB.Select(&records, query, threshold, limit); err != nil {
		return nil, fmt.Errorf("failed to get practiced candidates: %v", err)
	}
	return records, nil
}

// BackfillCandidates returns practiced terms with score >= 0 that are not
// in the excluded set, in the same weakest-first order. Used to top up the
// practiced quota when too few weak terms exist.
func (r *WordScoreRepository) BackfillCandidates(excluded []string, limit int) ([]models.WordRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	base := "SELECT * FROM word_scores WHERE submissions > 0 AND score >= 0"
	var (
		query string
		args  []interface{}
		err   error
	)
	if len(excluded) > 0 {
		query, args, err = sqlx.In(base+" AND term NOT IN (?) ORDER BY score ASC, submissions ASC, id ASC LIMIT ?", excluded, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to build backfill query: %v", err)
		}
	} else {
		query = base + " ORDER BY score ASC, submissions ASC, id ASC LIMIT ?"
		args = []interface{}{limit}
	}

	var records []models.WordRecord
	if err := DB.Select(&records, DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get backfill candidates: %v", err)
	}
	return records, nil
}

// FreshCandidates returns never-practiced terms in insertion order
func (r *WordScoreRepository) FreshCandidates(limit int) ([]models.WordRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	var records []models.WordRecord
	query := DB.Rebind("SELECT * FROM word_scores WHERE submissions = 0 ORDER BY id ASC LIMIT ?")
	if err := DB.Select(&records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get fresh candidates: %v", err)
	}
	return records, nil
}

// byTerm fetches a single record outside any transaction
func (r *WordScoreRepository) byTerm(term string) (*models.WordRecord, error) {
	var record models.WordRecord
	err := DB.Get(&record, DB.Rebind("SELECT * FROM word_scores WHERE term = ?"), term)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %v", err)
	}
	return &record, nil
}

// byTermTx fetches a single record inside an open transaction
func byTermTx(tx *sqlx.Tx, term string) (*models.WordRecord, error) {
	var record models.WordRecord
	err := tx.Get(&record, tx.Rebind("SELECT * FROM word_scores WHERE term = ?"), term)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get term: %v", err)
	}
	return &record, nil
}

// isUniqueViolation matches the duplicate-key errors of both backends
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
