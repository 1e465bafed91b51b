package models

import "time"

// PageRef identifies one member page of a category as returned by the
// MediaWiki categorymembers listing.
type PageRef struct {
	PageID int    `json:"pageid"`
	NS     int    `json:"ns"`
	Title  string `json:"title"`
}

// WordCount is one ranked entry of a frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Page processing statuses.
const (
	PageStatusOK      = "ok"
	PageStatusFailed  = "failed"
	PageStatusEmpty   = "empty"
	PageStatusSkipped = "skipped"
)

// Error types attached to failed page outcomes.
const (
	ErrorTypeFetch = "fetch_error"
	ErrorTypeEmpty = "empty_extract"
	ErrorTypeParse = "parse_error"
)

// PageOutcome records what happened to a single page during a run.
type PageOutcome struct {
	Title              string  `json:"title"`
	Status             string  `json:"status"`
	ErrorType          string  `json:"error_type,omitempty"`
	Error              string  `json:"error,omitempty"`
	Words              int     `json:"words"` // token occurrences contributed
	Language           string  `json:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty"`
}

// RunStats summarizes a frequency table.
type RunStats struct {
	TotalUniqueWords int `json:"total_unique_words" yaml:"total_unique_words"`
	TotalOccurrences int `json:"total_occurrences" yaml:"total_occurrences"`
	MaxFrequency     int `json:"max_frequency" yaml:"max_frequency"`
	MinFrequency     int `json:"min_frequency" yaml:"min_frequency"`
}

// RunResult is the outcome of analyzing one category.
type RunResult struct {
	Category     string        `json:"category"`
	PagesTotal   int           `json:"pages_total"`
	PagesFetched int           `json:"pages_fetched"`
	PagesFailed  int           `json:"pages_failed"`
	PagesEmpty   int           `json:"pages_empty"`
	PagesSkipped int           `json:"pages_skipped"`
	Top          []WordCount   `json:"top"`
	Pages        []PageOutcome `json:"pages,omitempty"`
	Duration     time.Duration `json:"-"`
	FromCache    bool          `json:"from_cache"`

	// Frequencies is the full untruncated table. Top is derived from it.
	Frequencies map[string]int `json:"frequencies"`
}

// Stats computes summary statistics over the full frequency table.
func (r *RunResult) Stats() RunStats {
	stats := RunStats{TotalUniqueWords: len(r.Frequencies)}
	first := true
	for _, count := range r.Frequencies {
		stats.TotalOccurrences += count
		if first || count > stats.MaxFrequency {
			stats.MaxFrequency = count
		}
		if first || count < stats.MinFrequency {
			stats.MinFrequency = count
		}
		first = false
	}
	return stats
}

// FailedTitles returns the titles of pages that could not be fetched.
func (r *RunResult) FailedTitles() []string {
	var titles []string
	for _, p := range r.Pages {
		if p.Status == PageStatusFailed {
			titles = append(titles, p.Title)
		}
	}
	return titles
}
