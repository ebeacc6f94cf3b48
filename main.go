package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vocabmastery/internal/database"
	"github.com/example/vocabmastery/internal/excel"
	"github.com/example/vocabmastery/internal/suggest"
	"github.com/example/vocabmastery/internal/trends"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch os.Args[1] {
	case "import":
		runImport(os.Args[2:])
	case "backfill":
		runBackfill()
	case "suggest":
		runSuggest(os.Args[2:])
	case "trend":
		runTrend(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  vocabmastery import <file.xlsx|file.csv>   bulk-create terms with meanings
  vocabmastery backfill                      create missing snapshots for scored sessions
  vocabmastery suggest [practiced total threshold]
  vocabmastery trend [days]`)
}

func runImport(args []string) {
	if len(args) < 1 {
		log.Fatal("import: missing file path")
	}

	config := excel.DefaultImportConfig()
	config.FilePath = args[0]

	result, err := excel.ImportWords(config)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Processed %d rows: %d created, %d skipped", result.TotalProcessed, result.Created, result.Skipped)
	for _, msg := range result.Errors {
		log.Printf("  %s", msg)
	}
}

func runBackfill() {
	created, err := database.NewSnapshotRepository().Backfill()
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}
	log.Printf("Done. %d snapshots created.", created)
}

func runSuggest(args []string) {
	practiced, total, threshold := 5, 10, 1.0
	if len(args) > 0 {
		practiced = atoiOr(args[0], practiced)
	}
	if len(args) > 1 {
		total = atoiOr(args[1], total)
	}
	if len(args) > 2 {
		if v, err := strconv.ParseFloat(args[2], 64); err == nil {
			threshold = v
		}
	}

	suggestion, err := suggest.NewScheduler().Suggest(practiced, total, threshold)
	if err != nil {
		log.Fatalf("Suggest failed: %v", err)
	}

	fmt.Println("practiced:")
	for _, rec := range suggestion.Practiced {
		fmt.Printf("  %s (score %.2f, %d submissions)\n", rec.Term, rec.Score, rec.Submissions)
	}
	fmt.Println("fresh:")
	for _, rec := range suggestion.Fresh {
		fmt.Printf("  %s\n", rec.Term)
	}
}

func runTrend(args []string) {
	days := trends.DefaultWindowDays
	if len(args) > 0 {
		days = atoiOr(args[0], days)
	}

	stats, err := trends.NewReconstructor().DailyDeltas(days, time.Now())
	if err != nil {
		log.Fatalf("Trend failed: %v", err)
	}

	for _, stat := range stats {
		fmt.Printf("%s  practiced %d  below_zero %d  above_two %d  (total %d)\n",
			stat.Day, stat.Practiced, stat.BelowZero, stat.AboveTwo, stat.TotalPracticed)
	}
}

func atoiOr(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}
