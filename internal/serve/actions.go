package serve

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wikifreq/internal/analyze"
	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/db"
)

func ServeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	analyze.ApplyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	database, err := openDatabase(cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	server := NewServer(logger, cfg, database)

	logger.Info("Starting web app", "addr", cfg.ListenAddr, "database", database.Path())
	if err := http.ListenAndServe(cfg.ListenAddr, server.Router()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	return nil
}

func openDatabase(cfg *models.Config) (*db.DB, error) {
	if cfg.Database != "" {
		return db.OpenPath(cfg.Database)
	}
	return db.Open()
}
