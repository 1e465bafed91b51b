package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/wikifreq/models"
)

// Run represents one recorded category analysis.
type Run struct {
	RunID            int64
	Category         string
	CreatedAt        time.Time
	PagesTotal       int
	PagesFetched     int
	PagesFailed      int
	PagesEmpty       int
	PagesSkipped     int
	UniqueWords      int
	TotalOccurrences int
	DurationSeconds  float64
	FromCache        bool
	TopKeywords      []string
}

// RunPage is one page outcome within a recorded run.
type RunPage struct {
	Title        string
	Status       string
	ErrorType    string
	ErrorMessage string
	Words        int
	Language     string
}

// InsertRun records a completed analysis and its per-page outcomes.
// topKeywords are "word:count" strings as produced by mapreduce.TopKeywords.
func (db *DB) InsertRun(result *models.RunResult, topKeywords []string) (int64, error) {
	keywordsJSON, err := json.Marshal(topKeywords)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal top keywords: %w", err)
	}

	stats := result.Stats()
	res, err := db.Exec(`
		INSERT INTO runs (category, pages_total, pages_fetched, pages_failed, pages_empty,
		                  pages_skipped, unique_words, total_occurrences, duration_seconds,
		                  from_cache, top_keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.Category, result.PagesTotal, result.PagesFetched, result.PagesFailed,
		result.PagesEmpty, result.PagesSkipped, stats.TotalUniqueWords,
		stats.TotalOccurrences, result.Duration.Seconds(), result.FromCache,
		string(keywordsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, page := range result.Pages {
		if err := db.insertRunPage(runID, page); err != nil {
			return 0, err
		}
	}

	return runID, nil
}

func (db *DB) insertRunPage(runID int64, page models.PageOutcome) error {
	_, err := db.Exec(`
		INSERT INTO run_pages (run_id, title, status, error_type, error_message, words, language)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, page.Title, page.Status, nullable(page.ErrorType), nullable(page.Error),
		page.Words, nullable(page.Language))
	if err != nil {
		return fmt.Errorf("failed to insert run page %q: %w", page.Title, err)
	}
	return nil
}

// nullable stores empty strings as NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// GetRun retrieves a run by its ID.
func (db *DB) GetRun(runID int64) (*Run, error) {
	var r Run
	var keywordsJSON sql.NullString
	err := db.QueryRow(`
		SELECT run_id, category, created_at, pages_total, pages_fetched, pages_failed,
		       pages_empty, pages_skipped, unique_words, total_occurrences,
		       duration_seconds, from_cache, top_keywords
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(
		&r.RunID, &r.Category, &r.CreatedAt, &r.PagesTotal, &r.PagesFetched,
		&r.PagesFailed, &r.PagesEmpty, &r.PagesSkipped, &r.UniqueWords,
		&r.TotalOccurrences, &r.DurationSeconds, &r.FromCache, &keywordsJSON,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if keywordsJSON.Valid && keywordsJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &r.TopKeywords); err != nil {
			return nil, fmt.Errorf("failed to parse top keywords: %w", err)
		}
	}
	return &r, nil
}

// GetRunPages retrieves all page outcomes for a run.
func (db *DB) GetRunPages(runID int64) ([]RunPage, error) {
	rows, err := db.Query(`
		SELECT title, status, error_type, error_message, words, language
		FROM run_pages
		WHERE run_id = ?
		ORDER BY page_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run pages: %w", err)
	}
	defer rows.Close()

	var pages []RunPage
	for rows.Next() {
		var p RunPage
		var errorType, errorMessage, lang sql.NullString
		if err := rows.Scan(&p.Title, &p.Status, &errorType, &errorMessage, &p.Words, &lang); err != nil {
			return nil, fmt.Errorf("failed to scan run page: %w", err)
		}
		p.ErrorType = errorType.String
		p.ErrorMessage = errorMessage.String
		p.Language = lang.String
		pages = append(pages, p)
	}

	return pages, rows.Err()
}

// ListRuns retrieves runs ordered by most recent first. category filters to
// one category when non-empty; limit <= 0 means no limit.
func (db *DB) ListRuns(category string, limit int) ([]Run, error) {
	query := `
		SELECT run_id, category, created_at, pages_total, pages_fetched, pages_failed,
		       pages_empty, pages_skipped, unique_words, total_occurrences,
		       duration_seconds, from_cache, top_keywords
		FROM runs
	`

	var conditions []string
	var args []interface{}
	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, run_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// LatestRunsByCategory returns the newest run for every analyzed category.
func (db *DB) LatestRunsByCategory() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, category, created_at, pages_total, pages_fetched, pages_failed,
		       pages_empty, pages_skipped, unique_words, total_occurrences,
		       duration_seconds, from_cache, top_keywords
		FROM runs
		WHERE run_id IN (SELECT MAX(run_id) FROM runs GROUP BY category)
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var keywordsJSON sql.NullString
		if err := rows.Scan(
			&r.RunID, &r.Category, &r.CreatedAt, &r.PagesTotal, &r.PagesFetched,
			&r.PagesFailed, &r.PagesEmpty, &r.PagesSkipped, &r.UniqueWords,
			&r.TotalOccurrences, &r.DurationSeconds, &r.FromCache, &keywordsJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if keywordsJSON.Valid && keywordsJSON.String != "" {
			if err := json.Unmarshal([]byte(keywordsJSON.String), &r.TopKeywords); err != nil {
				return nil, fmt.Errorf("failed to parse top keywords: %w", err)
			}
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
