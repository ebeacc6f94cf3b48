package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. The backend is chosen
// by DB_TYPE ("sqlite" by default, or "postgres" with DATABASE_URL); the
// SQLite file location can be overridden with DATABASE_PATH.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
	} else {
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			// Create data directory if it doesn't exist
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
			dbPath = filepath.Join(dataDir, "word_scores.db")
		}

		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}

		// Enable foreign keys so deletes cascade to contexts and results
		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	// Initialize schema
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// idColumn returns the autoincrementing primary key declaration for the
// current backend.
func idColumn() string {
	if DB.DriverName() == "postgres" {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create word_scores table
	_, err := DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS word_scores (
			%s,
			term TEXT NOT NULL UNIQUE,
			meaning TEXT,
			score REAL NOT NULL DEFAULT 0,
			submissions INTEGER NOT NULL DEFAULT 0,
			last_submission TIMESTAMP,
			correct_count INTEGER NOT NULL DEFAULT 0,
			incorrect_count INTEGER NOT NULL DEFAULT 0
		)
	`, idColumn()))
	if err != nil {
		return fmt.Errorf("failed to create word_scores table: %v", err)
	}

	// Create word_contexts table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS word_contexts (
			%s,
			term TEXT NOT NULL,
			sentence TEXT NOT NULL,
			article TEXT,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (term) REFERENCES word_scores(term) ON DELETE CASCADE
		)
	`, idColumn()))
	if err != nil {
		return fmt.Errorf("failed to create word_contexts table: %v", err)
	}

	_, err = DB.Exec("CREATE INDEX IF NOT EXISTS idx_word_contexts_term ON word_contexts(term, created_at)")
	if err != nil {
		return fmt.Errorf("failed to create word_contexts index: %v", err)
	}

	// Create grading_sessions table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS grading_sessions (
			%s,
			submitted_at TIMESTAMP NOT NULL,
			article TEXT,
			total_terms INTEGER NOT NULL DEFAULT 0,
			correct_terms INTEGER NOT NULL DEFAULT 0,
			partial_terms INTEGER NOT NULL DEFAULT 0,
			incorrect_terms INTEGER NOT NULL DEFAULT 0,
			avg_similarity REAL,
			scored BOOLEAN NOT NULL DEFAULT FALSE
		)
	`, idColumn()))
	if err != nil {
		return fmt.Errorf("failed to create grading_sessions table: %v", err)
	}

	// Create session_results table
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS session_results (
			%s,
			session_id BIGINT NOT NULL,
			term TEXT NOT NULL,
			similarity REAL,
			standard_answer TEXT,
			explanation TEXT,
			context TEXT,
			FOREIGN KEY (session_id) REFERENCES grading_sessions(id) ON DELETE CASCADE
		)
	`, idColumn()))
	if err != nil {
		return fmt.Errorf("failed to create session_results table: %v", err)
	}

	// Create score_snapshots table. The UNIQUE constraint on session_id is
	// what guarantees at most one snapshot per scored session.
	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS score_snapshots (
			%s,
			session_id BIGINT NOT NULL UNIQUE,
			taken_at TIMESTAMP NOT NULL,
			total_practiced INTEGER NOT NULL,
			below_zero INTEGER NOT NULL,
			zero_to_two INTEGER NOT NULL,
			above_two INTEGER NOT NULL,
			mastered INTEGER NOT NULL,
			FOREIGN KEY (session_id) REFERENCES grading_sessions(id) ON DELETE CASCADE
		)
	`, idColumn()))
	if err != nil {
		return fmt.Errorf("failed to create score_snapshots table: %v", err)
	}

	_, err = DB.Exec("CREATE INDEX IF NOT EXISTS idx_score_snapshots_taken_at ON score_snapshots(taken_at)")
	if err != nil {
		return fmt.Errorf("failed to create score_snapshots index: %v", err)
	}

	return nil
}
