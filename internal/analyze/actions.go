package analyze

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/wikifreq/internal/common"
	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/db"
	"github.com/dtnitsch/wikifreq/pkg/export"
	"github.com/dtnitsch/wikifreq/pkg/mapreduce"
	"github.com/dtnitsch/wikifreq/pkg/wikiapi"
	"github.com/urfave/cli/v2"
)

func AnalyzeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if c.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no category provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  wikifreq analyze "Machine learning"`)
		fmt.Fprintln(os.Stderr, `  wikifreq analyze Category:Physics --top 25 --workers 8`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: wikifreq analyze --help")
		os.Exit(2)
	}

	category, err := common.ValidateCategory(c.Args().First())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	ApplyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	format := strings.ToLower(c.String("format"))
	if format != export.FormatJSON && format != export.FormatYAML {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (use: json or yaml)\n", format)
		os.Exit(2)
	}

	database, err := openDatabase(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	req := Request{
		Category: category,
		Output:   c.String("output"),
		Format:   format,
		Refresh:  c.Bool("refresh"),
	}

	result, err := Run(c.Context, logger, cfg, database, req)
	if err != nil {
		if errors.Is(err, wikiapi.ErrCategoryNotFound) {
			fmt.Fprintf(os.Stderr, "Error: category %q does not exist\n", common.DisplayCategory(category))
			os.Exit(1)
		}
		logger.Error("analysis failed", "category", category, "error", err)
		os.Exit(1)
	}

	mapreduce.PrintTable(os.Stdout, result.Top, result.Stats())

	if result.PagesFailed > 0 {
		logger.Warn("Some pages could not be fetched", "failed", result.PagesFailed, "titles", result.FailedTitles())
	}
	logger.Info("Analysis complete",
		"category", category,
		"pages_total", result.PagesTotal,
		"pages_fetched", result.PagesFetched,
		"pages_failed", result.PagesFailed,
		"pages_empty", result.PagesEmpty,
		"pages_skipped", result.PagesSkipped,
		"from_cache", result.FromCache,
		"total_time_seconds", result.Duration.Seconds(),
	)

	return nil
}

// ApplyFlags overlays CLI flags that were explicitly set onto the config.
func ApplyFlags(c *cli.Context, cfg *models.Config) {
	if c.IsSet("endpoint") {
		cfg.Endpoint = c.String("endpoint")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("top") {
		cfg.Top = c.Int("top")
	}
	if c.IsSet("min-length") {
		cfg.MinWordLength = c.Int("min-length")
	}
	if c.IsSet("allow-numeric") {
		cfg.AllowNumeric = c.Bool("allow-numeric")
	}
	if c.IsSet("lang") {
		cfg.Language = c.String("lang")
	}
	if c.IsSet("depth") {
		cfg.Depth = c.Int("depth")
	}
	if c.IsSet("stop-words") {
		cfg.StopWords = splitList(c.String("stop-words"))
	}
	if c.IsSet("extra-stop-words") {
		cfg.ExtraStopWords = splitList(c.String("extra-stop-words"))
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-expiry") {
		cfg.CacheExpiryDays = c.Int("cache-expiry")
	}
	if c.IsSet("no-cache") {
		cfg.NoCache = c.Bool("no-cache")
	}
	if c.IsSet("database") {
		cfg.Database = c.String("database")
	}
	if c.IsSet("html-extracts") {
		cfg.HTMLExtracts = c.Bool("html-extracts")
	}
	if c.IsSet("addr") {
		cfg.ListenAddr = c.String("addr")
	}
}

func openDatabase(cfg *models.Config) (*db.DB, error) {
	if cfg.Database != "" {
		return db.OpenPath(cfg.Database)
	}
	return db.Open()
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
