package runs

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wikifreq/internal/common"
	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/db"
)

func RunsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	category := c.String("category")
	if category != "" {
		category = common.NormalizeCategory(category)
	}

	runs, err := database.ListRuns(category, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-30s %-7s %-7s %-8s %-9s %-8s %-6s\n",
		"ID", "Created", "Category", "Pages", "Failed", "Unique", "Total", "Time", "Cached")
	fmt.Println(strings.Repeat("-", 120))

	// Print each run
	for _, r := range runs {
		cached := "no"
		if r.FromCache {
			cached = "yes"
		}
		fmt.Printf("%-6d %-20s %-30s %-7d %-7d %-8d %-9d %-8s %-6s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			common.DisplayCategory(r.Category),
			r.PagesTotal,
			r.PagesFailed,
			r.UniqueWords,
			r.TotalOccurrences,
			fmt.Sprintf("%.1fs", r.DurationSeconds),
			cached,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'wikifreq runs show <id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := getRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	// Get run info
	run, err := database.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	// Get page outcomes for this run
	pages, err := database.GetRunPages(runID)
	if err != nil {
		return fmt.Errorf("failed to get run pages: %w", err)
	}

	// Print run details
	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Category:    %s\n", common.DisplayCategory(run.Category))
	fmt.Printf("Pages:       %d total (%d fetched, %d failed, %d empty, %d skipped)\n",
		run.PagesTotal, run.PagesFetched, run.PagesFailed, run.PagesEmpty, run.PagesSkipped)
	fmt.Printf("Words:       %d unique, %d occurrences\n", run.UniqueWords, run.TotalOccurrences)
	fmt.Printf("Duration:    %.1fs\n", run.DurationSeconds)
	fmt.Printf("From cache:  %t\n", run.FromCache)

	if len(run.TopKeywords) > 0 {
		fmt.Printf("\nTop keywords: %s\n", strings.Join(run.TopKeywords, ", "))
	}

	// Print page outcomes if available
	if len(pages) > 0 {
		fmt.Printf("\nPages (%d):\n", len(pages))
		fmt.Println(strings.Repeat("-", 60))
		for i, p := range pages {
			fmt.Printf("%2d. [%s] %s\n", i+1, p.Status, p.Title)
			switch p.Status {
			case models.PageStatusFailed:
				fmt.Printf("    Error: [%s] %s\n", p.ErrorType, p.ErrorMessage)
			case models.PageStatusOK:
				if p.Language != "" {
					fmt.Printf("    Words: %d | Language: %s\n", p.Words, p.Language)
				} else {
					fmt.Printf("    Words: %d\n", p.Words)
				}
			case models.PageStatusSkipped:
				fmt.Printf("    Language: %s (filtered)\n", p.Language)
			}
		}
	}

	fmt.Printf("\nTip: Use 'wikifreq analyze \"%s\" --refresh' to re-run\n",
		common.DisplayCategory(run.Category))

	return nil
}

// getRunIDOrLatest returns the run ID from args, or the latest run if not provided
func getRunIDOrLatest(c *cli.Context, database *db.DB) (int64, error) {
	if c.NArg() == 0 {
		// No run ID provided, use latest
		runs, err := database.ListRuns("", 1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'wikifreq analyze <category>' first")
		}
		return runs[0].RunID, nil
	}

	// Parse provided run ID
	var runID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &runID)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}

func openDatabase(c *cli.Context) (*db.DB, error) {
	if path := c.String("database"); path != "" {
		return db.OpenPath(path)
	}
	return db.Open()
}
