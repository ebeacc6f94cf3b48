package database_test

import (
	"testing"

	"github.com/example/vocabmastery/internal/database"
)

// setupDB connects the package-global DB to a fresh in-memory SQLite
// database for one test.
func setupDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DATABASE_PATH", ":memory:")
	if err := database.Connect(); err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
}

func ptr(v float64) *float64 { return &v }

func strptr(s string) *string { return &s }
