package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabmastery/pkg/models"
)

const (
	// ContextKeep is the maximum number of context rows retained per term
	ContextKeep = 30
	// RecentContextLimit is the default number of contexts returned per
	// term on read paths
	RecentContextLimit = 3
)

// ContextRepository appends example sentences per term and prunes each
// term to a bounded recent window so storage growth stays bounded
// regardless of corpus size.
type ContextRepository struct{}

// NewContextRepository creates a new repository instance
func NewContextRepository() *ContextRepository {
	return &ContextRepository{}
}

// Append inserts one context row. A sentence that is empty after trimming
// is ignored.
func (r *ContextRepository) Append(term, sentence string, article *string, now time.Time) error {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return nil
	}

	query := DB.Rebind("INSERT INTO word_contexts (term, sentence, article, created_at) VALUES (?, ?, ?, ?)")
	if _, err := DB.Exec(query, term, sentence, article, now); err != nil {
		return fmt.Errorf("failed to append context: %v", err)
	}
	return nil
}

// AppendBatch inserts contexts for a batch of graded results and prunes
// every affected term, all in one transaction. Results without a context
// sentence are skipped.
func (r *ContextRepository) AppendBatch(results []models.SessionResult, article *string, now time.Time) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	insert := tx.Rebind("INSERT INTO word_contexts (term, sentence, article, created_at) VALUES (?, ?, ?, ?)")
	affected := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))

	for _, res := range results {
		if res.Context == nil {
			continue
		}
		sentence := strings.TrimSpace(*res.Context)
		if sentence == "" {
			continue
		}
		if _, err := tx.Exec(insert, res.Term, sentence, article, now); err != nil {
			return fmt.Errorf("failed to append context: %v", err)
		}
		if !seen[res.Term] {
			seen[res.Term] = true
			affected = append(affected, res.Term)
		}
	}

	if err := pruneTx(tx, affected, ContextKeep); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit context batch: %v", err)
	}
	return nil
}

// Prune deletes all but the keep most recently created rows for each of
// the given terms, ties broken by insertion order.
func (r *ContextRepository) Prune(terms []string, keep int) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if err := pruneTx(tx, terms, keep); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prune: %v", err)
	}
	return nil
}

func pruneTx(tx *sqlx.Tx, terms []string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	query := tx.Rebind(`
		DELETE FROM word_contexts
		WHERE term = ? AND id NOT IN (
			SELECT id FROM word_contexts
			WHERE term = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`)
	for _, term := range terms {
		if _, err := tx.Exec(query, term, term, keep); err != nil {
			return fmt.Errorf("failed to prune contexts: %v", err)
		}
	}
	return nil
}

// Recent returns up to limitPerTerm most recent contexts per term,
// newest first. Terms with no contexts are simply absent from the map.
func (r *ContextRepository) Recent(terms []string, limitPerTerm int) (map[string][]models.WordContext, error) {
	if len(terms) == 0 || limitPerTerm <= 0 {
		return map[string][]models.WordContext{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT * FROM word_contexts
		WHERE term IN (?)
		ORDER BY created_at DESC, id DESC
	`, terms)
	if err != nil {
		return nil, fmt.Errorf("failed to build context query: %v", err)
	}

	var rows []models.WordContext
	if err := DB.Select(&rows, DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get contexts: %v", err)
	}

	recent := make(map[string][]models.WordContext, len(terms))
	for _, row := range rows {
		if len(recent[row.Term]) >= limitPerTerm {
			continue
		}
		recent[row.Term] = append(recent[row.Term], row)
	}
	return recent, nil
}
