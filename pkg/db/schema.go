package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per completed category analysis
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    pages_total INTEGER NOT NULL,
    pages_fetched INTEGER DEFAULT 0,
    pages_failed INTEGER DEFAULT 0,
    pages_empty INTEGER DEFAULT 0,
    pages_skipped INTEGER DEFAULT 0,
    unique_words INTEGER DEFAULT 0,
    total_occurrences INTEGER DEFAULT 0,
    duration_seconds REAL DEFAULT 0,
    from_cache BOOLEAN DEFAULT 0,

    -- Top keywords as JSON array: ["word1:count1", "word2:count2", ...]
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_category ON runs(category);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

-- Run pages: per-page outcomes within a run
CREATE TABLE IF NOT EXISTS run_pages (
    page_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,             -- ok, failed, empty, skipped
    error_type TEXT,                  -- fetch_error, empty_extract, parse_error
    error_message TEXT,
    words INTEGER DEFAULT 0,
    language TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_pages_run ON run_pages(run_id);
CREATE INDEX IF NOT EXISTS idx_run_pages_status ON run_pages(status);
`
