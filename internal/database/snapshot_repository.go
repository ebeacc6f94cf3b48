package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabmastery/pkg/models"
)

// SnapshotRepository persists point-in-time aggregates of the whole score
// distribution, one per scored session. Snapshot values are absolute
// counts at that instant; differencing is the trend reconstructor's job.
type SnapshotRepository struct{}

// NewSnapshotRepository creates a new repository instance
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

// bucketCounts is the one-row aggregate over practiced terms
type bucketCounts struct {
	Practiced int `db:"practiced"`
	BelowZero int `db:"below_zero"`
	ZeroToTwo int `db:"zero_to_two"`
	AboveTwo  int `db:"above_two"`
	Mastered  int `db:"mastered"`
}

// Take computes and stores the snapshot for a scored session. It no-ops
// (returning false) when none of the session's terms has been practiced
// yet, when nothing store-wide has been practiced, or when the session
// already has a snapshot.
func (r *SnapshotRepository) Take(sessionID int64, takenAt time.Time, terms []string) (bool, error) {
	if len(terms) == 0 {
		return false, nil
	}

	tx, err := DB.Beginx()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.Get(&existing, tx.Rebind("SELECT COUNT(*) FROM score_snapshots WHERE session_id = ?"), sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing snapshot: %v", err)
	}
	if existing > 0 {
		return false, nil
	}

	query, args, err := sqlx.In("SELECT COUNT(*) FROM word_scores WHERE term IN (?) AND submissions > 0", terms)
	if err != nil {
		return false, fmt.Errorf("failed to build practiced query: %v", err)
	}
	var practicedAmongTerms int
	if err := tx.Get(&practicedAmongTerms, tx.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("failed to count practiced terms: %v", err)
	}
	if practicedAmongTerms == 0 {
		return false, nil
	}

	var counts bucketCounts
	err = tx.Get(&counts, `
		SELECT
			COALESCE(SUM(CASE WHEN submissions > 0 THEN 1 ELSE 0 END), 0) AS practiced,
			COALESCE(SUM(CASE WHEN submissions > 0 AND score < 0 THEN 1 ELSE 0 END), 0) AS below_zero,
			COALESCE(SUM(CASE WHEN submissions > 0 AND score >= 0 AND score < 2 THEN 1 ELSE 0 END), 0) AS zero_to_two,
			COALESCE(SUM(CASE WHEN submissions > 0 AND score >= 2 AND score < 999 THEN 1 ELSE 0 END), 0) AS above_two,
			COALESCE(SUM(CASE WHEN submissions > 0 AND score >= 999 THEN 1 ELSE 0 END), 0) AS mastered
		FROM word_scores
	`)
	if err != nil {
		return false, fmt.Errorf("failed to compute score distribution: %v", err)
	}
	if counts.Practiced == 0 {
		return false, nil
	}

	insert := tx.Rebind(`
		INSERT INTO score_snapshots (
			session_id, taken_at, total_practiced, below_zero, zero_to_two, above_two, mastered
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = tx.Exec(insert, sessionID, takenAt, counts.Practiced, counts.BelowZero, counts.ZeroToTwo, counts.AboveTwo, counts.Mastered)
	if err != nil {
		return false, fmt.Errorf("failed to create snapshot: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit snapshot: %v", err)
	}
	return true, nil
}

// TakenBefore returns every snapshot taken strictly before the cutoff,
// oldest first. The trend reconstructor consumes this to pick per-day
// representatives and the pre-window baseline.
func (r *SnapshotRepository) TakenBefore(cutoff time.Time) ([]models.ScoreSnapshot, error) {
	var snapshots []models.ScoreSnapshot
	query := DB.Rebind("SELECT * FROM score_snapshots WHERE taken_at < ? ORDER BY taken_at ASC, id ASC")
	if err := DB.Select(&snapshots, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %v", err)
	}
	return snapshots, nil
}

// BySession returns a session's snapshot, or ErrNotFound
func (r *SnapshotRepository) BySession(sessionID int64) (*models.ScoreSnapshot, error) {
	var snapshots []models.ScoreSnapshot
	query := DB.Rebind("SELECT * FROM score_snapshots WHERE session_id = ?")
	if err := DB.Select(&snapshots, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %v", err)
	}
	if len(snapshots) == 0 {
		return nil, ErrNotFound
	}
	return &snapshots[0], nil
}

// Backfill creates missing snapshots for already-scored sessions, stamped
// with each session's submission time. Returns how many were created.
func (r *SnapshotRepository) Backfill() (int, error) {
	var sessions []models.GradingSession
	err := DB.Select(&sessions, `
		SELECT s.* FROM grading_sessions s
		WHERE s.scored AND NOT EXISTS (
			SELECT 1 FROM score_snapshots sn WHERE sn.session_id = s.id
		)
		ORDER BY s.submitted_at ASC, s.id ASC
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions without snapshots: %v", err)
	}

	created := 0
	for _, session := range sessions {
		var terms []string
		query := DB.Rebind("SELECT DISTINCT term FROM session_results WHERE session_id = ?")
		if err := DB.Select(&terms, query, session.ID); err != nil {
			return created, fmt.Errorf("failed to get session terms: %v", err)
		}
		ok, err := r.Take(session.ID, session.SubmittedAt, terms)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
