package analyze

// Job is one page title queued for a worker.
type Job struct {
	Title string
}

// Result holds the outcome of a processed page.
type Result struct {
	Title              string
	Error              error
	ErrorType          string
	WordCounts         map[string]int
	Words              int
	Language           string
	LanguageConfidence float64
	Empty              bool
	Skipped            bool
}

// Request carries the per-run parameters layered on top of the resolved
// configuration.
type Request struct {
	Category string // normalized category name
	Output   string // export path, empty for none
	Format   string // json or yaml
	Refresh  bool   // bypass cache reads, still refresh cache contents
}
