package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabmastery/internal/database"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	TermColumn    string // Column with the term
	MeaningColumn string // Column with the reference translation
	SheetName     string // Name of the sheet to import
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TermColumn:    "A",
		MeaningColumn: "B",
		SheetName:     "Sheet1",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportWords bulk-creates vocabulary terms from an Excel or CSV file.
// Rows with a blank term and terms that already exist are skipped, not
// treated as failures.
func ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports terms from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	wordRepo := database.NewWordScoreRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		var term, meaning string
		if colIdx := columnToIndex(config.TermColumn); colIdx < len(row) {
			term = row[colIdx]
		}
		if colIdx := columnToIndex(config.MeaningColumn); colIdx < len(row) {
			meaning = row[colIdx]
		}

		if err := createTerm(wordRepo, term, meaning, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports terms from a CSV file. The first column is the
// term, the second the meaning.
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	wordRepo := database.NewWordScoreRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		var term, meaning string
		if len(row) > 0 {
			term = row[0]
		}
		if len(row) > 1 {
			meaning = row[1]
		}

		if err := createTerm(wordRepo, term, meaning, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// createTerm inserts one term, counting blanks and duplicates as skips
func createTerm(repo *database.WordScoreRepository, term, meaning string, result *ImportResult) error {
	term = strings.TrimSpace(term)
	if term == "" {
		result.Skipped++
		return nil
	}

	var meaningPtr *string
	if m := strings.TrimSpace(meaning); m != "" {
		meaningPtr = &m
	}

	if _, err := repo.Create(term, meaningPtr); err != nil {
		if errors.Is(err, database.ErrDuplicateTerm) {
			result.Skipped++
			return nil
		}
		return err
	}

	result.Created++
	return nil
}

// columnToIndex converts an Excel column letter (A, B, ..., AA) to a
// zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for _, c := range column {
		index = index*26 + int(c-'A') + 1
	}
	return index - 1
}
