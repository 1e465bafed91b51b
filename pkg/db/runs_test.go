package db

import (
	"testing"
	"time"

	"github.com/dtnitsch/wikifreq/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleResult(category string) *models.RunResult {
	return &models.RunResult{
		Category:     category,
		PagesTotal:   3,
		PagesFetched: 2,
		PagesFailed:  1,
		Duration:     1500 * time.Millisecond,
		Frequencies:  map[string]int{"cat": 2, "sat": 1, "mat": 1, "ran": 1},
		Top:          []models.WordCount{{Word: "cat", Count: 2}, {Word: "mat", Count: 1}},
		Pages: []models.PageOutcome{
			{Title: "Cat", Status: models.PageStatusOK, Words: 3},
			{Title: "Mat", Status: models.PageStatusOK, Words: 2},
			{Title: "Dog", Status: models.PageStatusFailed, ErrorType: models.ErrorTypeFetch, Error: "connection refused"},
		},
	}
}

func TestInsertRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleResult("Science"), []string{"cat:2", "mat:1"})
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("InsertRun() returned 0 run ID")
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Category != "Science" {
		t.Errorf("run.Category = %q, want %q", run.Category, "Science")
	}
	if run.PagesTotal != 3 || run.PagesFetched != 2 || run.PagesFailed != 1 {
		t.Errorf("run page counts = %d/%d/%d, want 3/2/1",
			run.PagesTotal, run.PagesFetched, run.PagesFailed)
	}
	if run.UniqueWords != 4 {
		t.Errorf("run.UniqueWords = %d, want 4", run.UniqueWords)
	}
	if run.TotalOccurrences != 5 {
		t.Errorf("run.TotalOccurrences = %d, want 5", run.TotalOccurrences)
	}
	if len(run.TopKeywords) != 2 || run.TopKeywords[0] != "cat:2" {
		t.Errorf("run.TopKeywords = %v, want [cat:2 mat:1]", run.TopKeywords)
	}
}

func TestInsertRun_PageOutcomes(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleResult("Science"), nil)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	pages, err := db.GetRunPages(runID)
	if err != nil {
		t.Fatalf("GetRunPages() error = %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("GetRunPages() returned %d pages, want 3", len(pages))
	}

	if pages[0].Title != "Cat" || pages[0].Status != models.PageStatusOK {
		t.Errorf("pages[0] = %+v, want Cat/ok", pages[0])
	}
	failed := pages[2]
	if failed.Status != models.PageStatusFailed {
		t.Errorf("pages[2].Status = %q, want %q", failed.Status, models.PageStatusFailed)
	}
	if failed.ErrorType != models.ErrorTypeFetch {
		t.Errorf("pages[2].ErrorType = %q, want %q", failed.ErrorType, models.ErrorTypeFetch)
	}
	if failed.ErrorMessage != "connection refused" {
		t.Errorf("pages[2].ErrorMessage = %q, want %q", failed.ErrorMessage, "connection refused")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRun(42); err == nil {
		t.Error("GetRun() on empty database returned nil error")
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, category := range []string{"Science", "History", "Science"} {
		if _, err := db.InsertRun(sampleResult(category), nil); err != nil {
			t.Fatalf("InsertRun(%s) error = %v", category, err)
		}
	}

	all, err := db.ListRuns("", 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRuns() returned %d runs, want 3", len(all))
	}
	// Newest first
	if all[0].RunID <= all[1].RunID {
		t.Errorf("ListRuns() order: run %d before %d, want newest first", all[0].RunID, all[1].RunID)
	}

	science, err := db.ListRuns("Science", 0)
	if err != nil {
		t.Fatalf("ListRuns(Science) error = %v", err)
	}
	if len(science) != 2 {
		t.Errorf("ListRuns(Science) returned %d runs, want 2", len(science))
	}

	limited, err := db.ListRuns("", 1)
	if err != nil {
		t.Fatalf("ListRuns(limit=1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListRuns(limit=1) returned %d runs, want 1", len(limited))
	}
}

func TestLatestRunsByCategory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := db.InsertRun(sampleResult("Science"), nil)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	second, err := db.InsertRun(sampleResult("Science"), nil)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if _, err := db.InsertRun(sampleResult("History"), nil); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	latest, err := db.LatestRunsByCategory()
	if err != nil {
		t.Fatalf("LatestRunsByCategory() error = %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("LatestRunsByCategory() returned %d runs, want 2", len(latest))
	}

	for _, run := range latest {
		if run.Category == "Science" {
			if run.RunID != second {
				t.Errorf("latest Science run = %d, want %d (not %d)", run.RunID, second, first)
			}
		}
	}
}
