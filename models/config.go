// Package models defines data structures shared across commands.
package models

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the analyzer. Values are resolved
// in order: defaults, optional YAML file, WIKIFREQ_* environment variables
// (a .env file is honored), then CLI flags on top.
type Config struct {
	Endpoint       string   `yaml:"endpoint"`
	UserAgent      string   `yaml:"user_agent"`
	Workers        int      `yaml:"workers"`
	Top            int      `yaml:"top"`
	MinWordLength  int      `yaml:"min_word_length"`
	AllowNumeric   bool     `yaml:"allow_numeric"`
	Language       string   `yaml:"language"`
	Depth          int      `yaml:"depth"`
	StopWords      []string `yaml:"stop_words"`       // replaces the built-in set when non-empty
	ExtraStopWords []string `yaml:"extra_stop_words"` // appended to the active set

	CacheDir        string `yaml:"cache_dir"`
	CacheExpiryDays int    `yaml:"cache_expiry_days"`
	NoCache         bool   `yaml:"no_cache"`

	Database string `yaml:"database"` // empty = next to the executable

	RequestDelayMS int  `yaml:"request_delay_ms"`
	MaxRetries     int  `yaml:"max_retries"`
	HTMLExtracts   bool `yaml:"html_extracts"`

	ListenAddr string `yaml:"listen_addr"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:        "https://en.wikipedia.org/w/api.php",
		UserAgent:       "wikifreq/1.0 (word frequency analysis)",
		Workers:         4,
		Top:             50,
		MinWordLength:   3,
		Depth:           0,
		CacheDir:        "wikifreq-cache",
		CacheExpiryDays: 7,
		RequestDelayMS:  100,
		MaxRetries:      3,
		ListenAddr:      ":8080",
	}
}

// LoadConfig builds a Config from defaults, an optional YAML file, and
// environment overrides. A non-empty path must exist; the empty path means
// "no config file".
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Endpoint = getEnv("WIKIFREQ_ENDPOINT", c.Endpoint)
	c.UserAgent = getEnv("WIKIFREQ_USER_AGENT", c.UserAgent)
	c.Workers = getEnvInt("WIKIFREQ_WORKERS", c.Workers)
	c.Top = getEnvInt("WIKIFREQ_TOP", c.Top)
	c.MinWordLength = getEnvInt("WIKIFREQ_MIN_WORD_LENGTH", c.MinWordLength)
	c.AllowNumeric = getEnvBool("WIKIFREQ_ALLOW_NUMERIC", c.AllowNumeric)
	c.Language = getEnv("WIKIFREQ_LANGUAGE", c.Language)
	c.CacheDir = getEnv("WIKIFREQ_CACHE_DIR", c.CacheDir)
	c.CacheExpiryDays = getEnvInt("WIKIFREQ_CACHE_EXPIRY_DAYS", c.CacheExpiryDays)
	c.NoCache = getEnvBool("WIKIFREQ_NO_CACHE", c.NoCache)
	c.Database = getEnv("WIKIFREQ_DATABASE", c.Database)
	c.RequestDelayMS = getEnvInt("WIKIFREQ_REQUEST_DELAY_MS", c.RequestDelayMS)
	c.MaxRetries = getEnvInt("WIKIFREQ_MAX_RETRIES", c.MaxRetries)
	c.ListenAddr = getEnv("WIKIFREQ_LISTEN_ADDR", c.ListenAddr)
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MinWordLength < 1 {
		return fmt.Errorf("min_word_length must be at least 1, got %d", c.MinWordLength)
	}
	if c.Depth < 0 {
		return fmt.Errorf("depth must not be negative, got %d", c.Depth)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value == "true" {
		return true
	}
	return defaultValue
}
