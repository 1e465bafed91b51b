package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wikifreq/internal/analyze"
	"github.com/dtnitsch/wikifreq/internal/cache"
	"github.com/dtnitsch/wikifreq/internal/runs"
	"github.com/dtnitsch/wikifreq/internal/serve"
)

const version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "wikifreq",
		Usage:   "word frequency analysis for Wikipedia categories",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "analyze a category and report its most frequent words",
				ArgsUsage: "<category>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "top", Value: 50, Usage: "number of words to report"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the full analysis to `FILE`"},
					&cli.StringFlag{Name: "format", Value: "json", Usage: "export format: json or yaml"},
					&cli.IntFlag{Name: "workers", Value: 4, Usage: "concurrent page fetchers"},
					&cli.IntFlag{Name: "depth", Value: 0, Usage: "subcategory levels to descend into"},
					&cli.IntFlag{Name: "min-length", Value: 3, Usage: "minimum word length to count"},
					&cli.BoolFlag{Name: "allow-numeric", Usage: "keep words containing digits (pure numbers are still dropped)"},
					&cli.StringFlag{Name: "lang", Usage: "skip pages not in this language (ISO 639-1 code)"},
					&cli.StringFlag{Name: "endpoint", Usage: "MediaWiki API endpoint"},
					&cli.BoolFlag{Name: "html-extracts", Usage: "fetch HTML extracts and flatten them locally"},
					&cli.BoolFlag{Name: "no-cache", Usage: "disable the response cache"},
					&cli.StringFlag{Name: "cache-dir", Usage: "cache directory"},
					&cli.IntFlag{Name: "cache-expiry", Value: 7, Usage: "cache expiry in days"},
					&cli.BoolFlag{Name: "refresh", Usage: "ignore cached data and refetch"},
					&cli.StringFlag{Name: "stop-words", Usage: "comma-separated list replacing the built-in stop words"},
					&cli.StringFlag{Name: "extra-stop-words", Usage: "comma-separated words added to the stop word set"},
					&cli.StringFlag{Name: "database", Usage: "SQLite file for run history"},
					&cli.StringFlag{Name: "config", Usage: "YAML config `FILE`"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
				},
				Action: analyze.AnalyzeAction,
			},
			{
				Name:  "serve",
				Usage: "serve analysis results as a JSON API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
					&cli.StringFlag{Name: "config", Usage: "YAML config `FILE`"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
				},
				Action: serve.ServeAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded analysis runs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list"},
					&cli.StringFlag{Name: "category", Usage: "only show runs for this category"},
					&cli.StringFlag{Name: "database", Usage: "SQLite file for run history"},
				},
				Action: runs.RunsAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "show one run with its page outcomes",
						ArgsUsage: "[run-id]",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "database", Usage: "SQLite file for run history"},
						},
						Action: runs.RunAction,
					},
				},
			},
			{
				Name:  "cache",
				Usage: "manage the local response cache",
				Subcommands: []*cli.Command{
					{
						Name:  "clear",
						Usage: "delete all cached API responses and analyses",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "cache-dir", Usage: "cache directory"},
						},
						Action: cache.ClearAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
