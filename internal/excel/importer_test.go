package excel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/vocabmastery/internal/database"
	"github.com/example/vocabmastery/internal/excel"
)

func setupImport(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DATABASE_PATH", ":memory:")
	if err := database.Connect(); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { database.Close() })
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}

func TestImportWords_CSV(t *testing.T) {
	setupImport(t)

	path := writeCSV(t, "term,meaning\n"+
		"plateau,高原\n"+
		"canyon,峡谷\n"+
		",missing term\n"+
		"plateau,duplicate\n"+
		"ravine\n")

	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportWords(config)
	if err != nil {
		t.Fatalf("ImportWords: %v", err)
	}
	if result.TotalProcessed != 5 {
		t.Errorf("TotalProcessed = %d, want 5", result.TotalProcessed)
	}
	if result.Created != 3 {
		t.Errorf("Created = %d, want 3", result.Created)
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}

	records, err := database.NewWordScoreRepository().Get([]string{"plateau", "canyon", "ravine"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].Meaning == nil || *records[0].Meaning != "高原" {
		t.Errorf("plateau meaning = %v", records[0].Meaning)
	}
	// First insert wins; the duplicate row must not overwrite.
	if records[0].Score != 0 || records[0].Submissions != 0 {
		t.Errorf("imported record not fresh: %+v", records[0])
	}
	if records[2].Meaning != nil {
		t.Errorf("ravine meaning = %v, want nil", records[2].Meaning)
	}
}

func TestImportWords_CSVStartRow(t *testing.T) {
	setupImport(t)

	path := writeCSV(t, "ridge,山脊\nvalley,山谷\n")
	config := excel.DefaultImportConfig()
	config.FilePath = path
	config.StartRow = 1 // no header

	result, err := excel.ImportWords(config)
	if err != nil {
		t.Fatalf("ImportWords: %v", err)
	}
	if result.Created != 2 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 2 created", result)
	}
}
