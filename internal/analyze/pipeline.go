// Package analyze drives the category analysis pipeline: list the category's
// pages, fetch and tokenize each extract with a worker pool, aggregate word
// frequencies, and record the run.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dtnitsch/wikifreq/internal/common"
	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/analytics"
	"github.com/dtnitsch/wikifreq/pkg/caching"
	"github.com/dtnitsch/wikifreq/pkg/db"
	"github.com/dtnitsch/wikifreq/pkg/export"
	"github.com/dtnitsch/wikifreq/pkg/htmltext"
	"github.com/dtnitsch/wikifreq/pkg/language"
	"github.com/dtnitsch/wikifreq/pkg/mapreduce"
	"github.com/dtnitsch/wikifreq/pkg/storage"
	"github.com/dtnitsch/wikifreq/pkg/wikiapi"
)

// keywordSummaryLimit is how many top keywords get stored on the run row.
const keywordSummaryLimit = 25

// Run analyzes one category end to end and returns the aggregated result.
// Per-page failures are recorded on the result and do not abort the run;
// listing failures and a missing category do. A nil database skips run
// recording.
func Run(ctx context.Context, logger *slog.Logger, cfg *models.Config, database *db.DB, req Request) (*models.RunResult, error) {
	start := time.Now()

	var cache *caching.Cache
	if !cfg.NoCache {
		c, err := caching.NewCache(cfg.CacheDir, time.Duration(cfg.CacheExpiryDays)*24*time.Hour)
		if err != nil {
			logger.Warn("Cache unavailable, continuing without it", "dir", cfg.CacheDir, "error", err)
		} else {
			cache = c
		}
	}

	if cache != nil && !req.Refresh {
		if result := cachedAnalysis(logger, cache, req.Category); result != nil {
			// The document stores the full table, so a cached run still
			// honors the requested top-N.
			result.Top = mapreduce.Rank(result.Frequencies, cfg.Top)
			result.Duration = time.Since(start)
			return result, nil
		}
	}

	client := wikiapi.NewClient(cfg, logger)

	logger.Info("Starting listing phase", "category", req.Category, "depth", cfg.Depth)
	pages, err := collectPages(ctx, logger, client, cache, cfg, req.Category, req.Refresh)
	if err != nil {
		return nil, err
	}
	logger.Info("Listing phase complete", "category", req.Category, "pages", len(pages))

	tok := newTokenizer(cfg)
	var detector *language.Detector
	if cfg.Language != "" {
		detector = language.NewDetector()
	}

	logger.Info("Starting concurrent fetch phase", "pages", len(pages), "workers", cfg.Workers)
	results := runWorkers(ctx, logger, client, tok, detector, cfg, pages)
	logger.Info("All fetch workers finished")

	logger.Info("Starting aggregation phase")
	result := aggregate(req.Category, pages, results)
	result.Top = mapreduce.Rank(result.Frequencies, cfg.Top)
	result.Duration = time.Since(start)

	doc := export.Build(result)

	if req.Output != "" {
		store := &storage.Storage{}
		if err := export.Write(store, req.Output, doc, req.Format); err != nil {
			return nil, fmt.Errorf("failed to write export: %w", err)
		}
		logger.Info("Export written", "path", req.Output, "format", req.Format)
	}

	if cache != nil {
		if data, err := export.Encode(doc, export.FormatJSON); err == nil {
			if err := cache.Set("analysis:"+req.Category, data); err != nil {
				logger.Warn("Failed to cache analysis", "category", req.Category, "error", err)
			}
		}
	}

	if database != nil {
		keywords := mapreduce.TopKeywords(result.Frequencies, keywordSummaryLimit)
		runID, err := database.InsertRun(result, keywords)
		if err != nil {
			logger.Warn("Failed to record run", "error", err)
		} else {
			logger.Info("Run recorded", "run_id", runID)
		}
	}

	return result, nil
}

// aggregate merges per-page results into a RunResult, preserving the listing
// order of pages so output is deterministic.
func aggregate(category string, pages []models.PageRef, results []Result) *models.RunResult {
	byTitle := make(map[string]Result, len(results))
	for _, r := range results {
		byTitle[r.Title] = r
	}

	agg := mapreduce.NewAggregator()
	result := &models.RunResult{
		Category:   category,
		PagesTotal: len(pages),
	}

	for _, page := range pages {
		r := byTitle[page.Title]
		outcome := models.PageOutcome{
			Title:              page.Title,
			Language:           r.Language,
			LanguageConfidence: r.LanguageConfidence,
		}
		switch {
		case r.Error != nil:
			result.PagesFailed++
			outcome.Status = models.PageStatusFailed
			outcome.ErrorType = r.ErrorType
			outcome.Error = r.Error.Error()
		case r.Empty:
			result.PagesEmpty++
			outcome.Status = models.PageStatusEmpty
			outcome.ErrorType = models.ErrorTypeEmpty
		case r.Skipped:
			result.PagesSkipped++
			outcome.Status = models.PageStatusSkipped
		default:
			result.PagesFetched++
			outcome.Status = models.PageStatusOK
			outcome.Words = r.Words
			agg.Merge(r.WordCounts)
		}
		result.Pages = append(result.Pages, outcome)
	}

	result.Frequencies = agg.Snapshot()
	return result
}

// cachedAnalysis returns a previous run's result when a fresh analysis
// document is cached, nil otherwise.
func cachedAnalysis(logger *slog.Logger, cache *caching.Cache, category string) *models.RunResult {
	data, ok := cache.Get("analysis:" + category)
	if !ok {
		return nil
	}
	doc, err := export.Parse(data, export.FormatJSON)
	if err != nil {
		logger.Warn("Discarding unreadable cached analysis", "category", category, "error", err)
		return nil
	}
	logger.Info("Using cached analysis", "category", category)
	return doc.Result()
}

// collectPages lists the category's pages, descending into subcategories up
// to cfg.Depth levels. Pages are deduplicated by page ID so one article in
// several subcategories counts once. The root listing failing is fatal;
// a branch failing mid-descent is skipped with a warning.
func collectPages(ctx context.Context, logger *slog.Logger, client *wikiapi.Client, cache *caching.Cache, cfg *models.Config, category string, refresh bool) ([]models.PageRef, error) {
	type branch struct {
		name  string
		depth int
	}

	seenCats := map[string]struct{}{category: {}}
	seenPages := map[int]struct{}{}
	var pages []models.PageRef

	queue := []branch{{name: category, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		members, err := cachedMembers(ctx, logger, client, cache, cur.name, refresh)
		if err != nil {
			if cur.depth == 0 {
				return nil, err
			}
			logger.Warn("Failed to list subcategory, skipping branch", "category", cur.name, "error", err)
			continue
		}
		for _, page := range members {
			if _, dup := seenPages[page.PageID]; dup {
				continue
			}
			seenPages[page.PageID] = struct{}{}
			pages = append(pages, page)
		}

		if cur.depth >= cfg.Depth {
			continue
		}
		subcats, err := client.ListSubcategories(ctx, cur.name)
		if err != nil {
			logger.Warn("Failed to list subcategories, not descending", "category", cur.name, "error", err)
			continue
		}
		for _, sub := range subcats {
			name := common.NormalizeCategory(sub.Title)
			if _, dup := seenCats[name]; dup {
				continue
			}
			seenCats[name] = struct{}{}
			queue = append(queue, branch{name: name, depth: cur.depth + 1})
		}
	}
	return pages, nil
}

// cachedMembers returns the category's member list, from cache when fresh.
func cachedMembers(ctx context.Context, logger *slog.Logger, client *wikiapi.Client, cache *caching.Cache, category string, refresh bool) ([]models.PageRef, error) {
	key := "members:" + category

	if cache != nil && !refresh {
		if data, ok := cache.Get(key); ok {
			var pages []models.PageRef
			if err := json.Unmarshal(data, &pages); err == nil {
				logger.Info("Using cached member list", "category", category, "pages", len(pages))
				return pages, nil
			}
			logger.Warn("Discarding unreadable cached member list", "category", category)
		}
	}

	pages, err := client.ListCategoryMembers(ctx, category)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if data, err := json.Marshal(pages); err == nil {
			if err := cache.Set(key, data); err != nil {
				logger.Warn("Failed to cache member list", "category", category, "error", err)
			}
		}
	}
	return pages, nil
}

func runWorkers(ctx context.Context, logger *slog.Logger, client *wikiapi.Client, tok *analytics.Tokenizer, detector *language.Detector, cfg *models.Config, pages []models.PageRef) []Result {
	var wg sync.WaitGroup
	jobs := make(chan Job, len(pages))
	results := make(chan Result, len(pages))

	for w := 1; w <= cfg.Workers; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, client, tok, detector, cfg, &wg, jobs, results)
	}

	for _, page := range pages {
		jobs <- Job{Title: page.Title}
	}
	close(jobs)

	wg.Wait()
	close(results)

	collected := make([]Result, 0, len(pages))
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}

func worker(ctx context.Context, id int, logger *slog.Logger, client *wikiapi.Client, tok *analytics.Tokenizer, detector *language.Detector, cfg *models.Config, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started page", "worker_id", id, "title", job.Title)
		results <- processPage(ctx, id, logger, client, tok, detector, cfg, job.Title)
	}
}

func processPage(ctx context.Context, id int, logger *slog.Logger, client *wikiapi.Client, tok *analytics.Tokenizer, detector *language.Detector, cfg *models.Config, title string) Result {
	result := Result{Title: title}

	text, errType, err := fetchText(ctx, client, cfg, title)
	if err != nil {
		if errors.Is(err, wikiapi.ErrEmptyExtract) {
			logger.Warn("Page has no extractable text", "worker_id", id, "title", title)
			result.Empty = true
			return result
		}
		logger.Error("Error fetching page text", "worker_id", id, "title", title, "error", err)
		result.Error = err
		result.ErrorType = errType
		return result
	}

	if detector != nil {
		matched, code, confidence := detector.Matches(text, cfg.Language, language.DefaultMinConfidence)
		result.Language = code
		result.LanguageConfidence = confidence
		if !matched {
			logger.Info("Skipping page in another language", "worker_id", id, "title", title, "language", code, "confidence", confidence)
			result.Skipped = true
			return result
		}
	}

	counts := mapreduce.Map(text, tok)
	result.WordCounts = counts
	for _, n := range counts {
		result.Words += n
	}

	logger.Info("Worker finished page", "worker_id", id, "title", title, "words", result.Words)
	return result
}

// fetchText returns the page's plain text, classifying failures as fetch or
// parse errors. In HTML-extract mode markup is flattened locally; otherwise
// plain-text extracts are used with an action=parse fallback for wikis
// without the TextExtracts extension.
func fetchText(ctx context.Context, client *wikiapi.Client, cfg *models.Config, title string) (string, string, error) {
	if cfg.HTMLExtracts {
		html, err := client.FetchExtractHTML(ctx, title)
		if err != nil {
			return "", models.ErrorTypeFetch, err
		}
		return flatten(html, title)
	}

	text, err := client.FetchExtract(ctx, title)
	if errors.Is(err, wikiapi.ErrNoTextExtracts) {
		html, fetchErr := client.FetchParseHTML(ctx, title)
		if fetchErr != nil {
			return "", models.ErrorTypeFetch, fetchErr
		}
		return flatten(html, title)
	}
	if err != nil {
		return "", models.ErrorTypeFetch, err
	}
	return text, "", nil
}

func flatten(html, title string) (string, string, error) {
	text, err := htmltext.Flatten(html)
	if err != nil {
		return "", models.ErrorTypeParse, err
	}
	if text == "" {
		return "", models.ErrorTypeEmpty, fmt.Errorf("%w: %s", wikiapi.ErrEmptyExtract, title)
	}
	return text, "", nil
}

func newTokenizer(cfg *models.Config) *analytics.Tokenizer {
	opts := []analytics.Option{analytics.WithMinLength(cfg.MinWordLength)}
	if len(cfg.StopWords) > 0 {
		opts = append(opts, analytics.WithStopWords(cfg.StopWords))
	}
	if len(cfg.ExtraStopWords) > 0 {
		opts = append(opts, analytics.WithExtraStopWords(cfg.ExtraStopWords))
	}
	if cfg.AllowNumeric {
		opts = append(opts, analytics.WithNumeric())
	}
	return analytics.NewTokenizer(opts...)
}
