package cache

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/caching"
)

// ClearAction deletes every cached API response and analysis document.
func ClearAction(c *cli.Context) error {
	cfg, err := models.LoadConfig("")
	if err != nil {
		return err
	}

	dir := cfg.CacheDir
	if c.IsSet("cache-dir") {
		dir = c.String("cache-dir")
	}

	cache, err := caching.NewCache(dir, 0)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	removed, err := cache.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Printf("Removed %d cached entries from %s\n", removed, cache.Path())
	return nil
}
