package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/db"
	"github.com/dtnitsch/wikifreq/pkg/export"
	"github.com/dtnitsch/wikifreq/pkg/wikiapi"
)

// fakeWiki serves a minimal MediaWiki API: category membership, subcategory
// listings, extracts, and the existence probe.
type fakeWiki struct {
	mu       sync.Mutex
	requests int

	members  map[string][]models.PageRef // category -> member pages
	subcats  map[string][]models.PageRef // category -> subcategories
	extracts map[string]string           // title -> extract text
	failures map[string]int              // title -> HTTP status served instead
	missing  map[string]bool             // category -> probe reports missing
}

func (f *fakeWiki) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeWiki) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		f.mu.Unlock()

		q := r.URL.Query()
		switch {
		case q.Get("list") == "categorymembers":
			cat := strings.TrimPrefix(q.Get("cmtitle"), "Category:")
			refs := f.members[cat]
			if q.Get("cmtype") == "subcat" {
				refs = f.subcats[cat]
			}
			writeJSON(w, map[string]any{
				"query": map[string]any{"categorymembers": refs},
			})
		case q.Get("prop") == "extracts":
			title := q.Get("titles")
			if status, ok := f.failures[title]; ok {
				w.WriteHeader(status)
				return
			}
			page := map[string]any{"pageid": 1, "ns": 0, "title": title}
			if extract, ok := f.extracts[title]; ok {
				page["extract"] = extract
			} else {
				page["missing"] = ""
			}
			writeJSON(w, map[string]any{
				"query": map[string]any{"pages": map[string]any{"1": page}},
			})
		case q.Get("titles") != "":
			cat := strings.TrimPrefix(q.Get("titles"), "Category:")
			page := map[string]any{"ns": 14, "title": q.Get("titles")}
			if f.missing[cat] {
				page["missing"] = ""
			} else {
				page["pageid"] = 99
			}
			writeJSON(w, map[string]any{
				"query": map[string]any{"pages": map[string]any{"-1": page}},
			})
		default:
			http.NotFound(w, r)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeWiki(t *testing.T, f *fakeWiki) *models.Config {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	cfg := models.DefaultConfig()
	cfg.Endpoint = srv.URL + "/w/api.php"
	cfg.Workers = 2
	cfg.RequestDelayMS = 0
	cfg.MaxRetries = 0
	cfg.NoCache = true
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRun_AggregatesAcrossPages(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Test_pages": {
				{PageID: 1, NS: 0, Title: "Cat"},
				{PageID: 2, NS: 0, Title: "Dog"},
			},
		},
		extracts: map[string]string{
			"Cat": "The cat sat on the mat.",
			"Dog": "The cat ran.",
		},
	}
	cfg := newFakeWiki(t, wiki)

	result, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Test_pages"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.PagesTotal != 2 || result.PagesFetched != 2 {
		t.Errorf("pages total/fetched = %d/%d, want 2/2", result.PagesTotal, result.PagesFetched)
	}

	want := map[string]int{"cat": 2, "sat": 1, "mat": 1, "ran": 1}
	if !reflect.DeepEqual(result.Frequencies, want) {
		t.Errorf("Frequencies = %v, want %v", result.Frequencies, want)
	}
	if len(result.Top) == 0 || result.Top[0].Word != "cat" || result.Top[0].Count != 2 {
		t.Errorf("Top[0] = %+v, want cat:2", result.Top)
	}

	stats := result.Stats()
	if stats.TotalOccurrences != 5 {
		t.Errorf("TotalOccurrences = %d, want 5", stats.TotalOccurrences)
	}
	if stats.TotalUniqueWords != 4 {
		t.Errorf("TotalUniqueWords = %d, want 4", stats.TotalUniqueWords)
	}
}

func TestRun_PartialFailure(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Test_pages": {
				{PageID: 1, NS: 0, Title: "Cat"},
				{PageID: 2, NS: 0, Title: "Broken"},
				{PageID: 3, NS: 0, Title: "Dog"},
			},
		},
		extracts: map[string]string{
			"Cat": "The cat sat on the mat.",
			"Dog": "The cat ran.",
		},
		failures: map[string]int{"Broken": http.StatusInternalServerError},
	}
	cfg := newFakeWiki(t, wiki)

	result, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Test_pages"})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil on partial failure", err)
	}

	if result.PagesFailed != 1 || result.PagesFetched != 2 {
		t.Errorf("failed/fetched = %d/%d, want 1/2", result.PagesFailed, result.PagesFetched)
	}
	if got := result.FailedTitles(); !reflect.DeepEqual(got, []string{"Broken"}) {
		t.Errorf("FailedTitles() = %v, want [Broken]", got)
	}

	var broken models.PageOutcome
	for _, p := range result.Pages {
		if p.Title == "Broken" {
			broken = p
		}
	}
	if broken.Status != models.PageStatusFailed || broken.ErrorType != models.ErrorTypeFetch {
		t.Errorf("broken outcome = %+v, want failed/fetch_error", broken)
	}

	// Only fetched pages contribute tokens.
	if got := result.Stats().TotalOccurrences; got != 5 {
		t.Errorf("TotalOccurrences = %d, want 5", got)
	}
}

func TestRun_EmptyExtract(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Test_pages": {
				{PageID: 1, NS: 0, Title: "Cat"},
				{PageID: 2, NS: 0, Title: "Stub"},
			},
		},
		extracts: map[string]string{
			"Cat":  "The cat sat on the mat.",
			"Stub": "",
		},
	}
	cfg := newFakeWiki(t, wiki)

	result, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Test_pages"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.PagesEmpty != 1 || result.PagesFailed != 0 {
		t.Errorf("empty/failed = %d/%d, want 1/0", result.PagesEmpty, result.PagesFailed)
	}

	var stub models.PageOutcome
	for _, p := range result.Pages {
		if p.Title == "Stub" {
			stub = p
		}
	}
	if stub.Status != models.PageStatusEmpty || stub.ErrorType != models.ErrorTypeEmpty {
		t.Errorf("stub outcome = %+v, want empty/empty_extract", stub)
	}
}

func TestRun_CategoryNotFound(t *testing.T) {
	wiki := &fakeWiki{
		missing: map[string]bool{"Nope": true},
	}
	cfg := newFakeWiki(t, wiki)

	output := filepath.Join(t.TempDir(), "out.json")
	_, err := Run(context.Background(), discardLogger(), cfg, nil, Request{
		Category: "Nope",
		Output:   output,
		Format:   export.FormatJSON,
	})
	if !errors.Is(err, wikiapi.ErrCategoryNotFound) {
		t.Fatalf("Run() error = %v, want ErrCategoryNotFound", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("export file %s should not exist after a fatal error", output)
	}
}

func TestRun_EmptyCategoryExists(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{},
	}
	cfg := newFakeWiki(t, wiki)

	result, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Empty"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesTotal != 0 || len(result.Frequencies) != 0 {
		t.Errorf("result = %+v, want zero pages and empty table", result)
	}
}

func TestRun_AnalysisCacheServesRepeatRuns(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Test_pages": {{PageID: 1, NS: 0, Title: "Cat"}},
		},
		extracts: map[string]string{"Cat": "The cat sat on the mat."},
	}
	cfg := newFakeWiki(t, wiki)
	cfg.NoCache = false
	cfg.CacheDir = t.TempDir()

	first, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Test_pages"})
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.FromCache {
		t.Error("first run should not come from cache")
	}
	baseline := wiki.count()

	second, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Test_pages"})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !second.FromCache {
		t.Error("second run should come from cache")
	}
	if len(second.Top) == 0 || second.Top[0].Word != "cat" {
		t.Errorf("cached Top = %+v, want ranked table", second.Top)
	}
	if wiki.count() != baseline {
		t.Errorf("requests = %d, want unchanged %d (cache hit must not touch the network)", wiki.count(), baseline)
	}
	if !reflect.DeepEqual(second.Frequencies, first.Frequencies) {
		t.Errorf("cached Frequencies = %v, want %v", second.Frequencies, first.Frequencies)
	}

	third, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Test_pages", Refresh: true})
	if err != nil {
		t.Fatalf("refresh Run() error = %v", err)
	}
	if third.FromCache {
		t.Error("refresh run should bypass the cache")
	}
	if wiki.count() == baseline {
		t.Error("refresh run should hit the network")
	}
}

func TestRun_DepthDescendsSubcategories(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Science": {{PageID: 1, NS: 0, Title: "Cat"}},
			"Physics": {
				{PageID: 1, NS: 0, Title: "Cat"}, // shared page counts once
				{PageID: 2, NS: 0, Title: "Dog"},
			},
		},
		subcats: map[string][]models.PageRef{
			"Science": {{PageID: 10, NS: 14, Title: "Category:Physics"}},
		},
		extracts: map[string]string{
			"Cat": "The cat sat on the mat.",
			"Dog": "The cat ran.",
		},
	}
	cfg := newFakeWiki(t, wiki)
	cfg.Depth = 1

	result, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Science"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesTotal != 2 {
		t.Errorf("PagesTotal = %d, want 2 (shared page deduplicated)", result.PagesTotal)
	}
	if got := result.Frequencies["cat"]; got != 2 {
		t.Errorf("cat count = %d, want 2", got)
	}
}

func TestRun_LanguageFilterSkips(t *testing.T) {
	english := "The domestic cat is a small carnivorous mammal that has lived " +
		"alongside humans for thousands of years and appears in houses around the world."
	german := "Die Hauskatze ist ein kleines Säugetier und lebt seit Jahrtausenden " +
		"mit den Menschen zusammen. Sie gehört zu den beliebtesten Haustieren der Welt."

	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Test_pages": {
				{PageID: 1, NS: 0, Title: "Cat"},
				{PageID: 2, NS: 0, Title: "Hauskatze"},
			},
		},
		extracts: map[string]string{
			"Cat":       english,
			"Hauskatze": german,
		},
	}
	cfg := newFakeWiki(t, wiki)
	cfg.Language = "en"

	result, err := Run(context.Background(), discardLogger(), cfg, nil, Request{Category: "Test_pages"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.PagesSkipped != 1 || result.PagesFetched != 1 {
		t.Errorf("skipped/fetched = %d/%d, want 1/1", result.PagesSkipped, result.PagesFetched)
	}

	var skipped models.PageOutcome
	for _, p := range result.Pages {
		if p.Title == "Hauskatze" {
			skipped = p
		}
	}
	if skipped.Status != models.PageStatusSkipped {
		t.Errorf("skipped outcome status = %q, want %q", skipped.Status, models.PageStatusSkipped)
	}
	if skipped.Language != "de" {
		t.Errorf("skipped outcome language = %q, want de", skipped.Language)
	}
}

func TestRun_RecordsRun(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Test_pages": {
				{PageID: 1, NS: 0, Title: "Cat"},
				{PageID: 2, NS: 0, Title: "Broken"},
			},
		},
		extracts: map[string]string{"Cat": "The cat sat on the mat."},
		failures: map[string]int{"Broken": http.StatusInternalServerError},
	}
	cfg := newFakeWiki(t, wiki)

	database, err := db.OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenPath() error = %v", err)
	}
	defer database.Close()

	result, err := Run(context.Background(), discardLogger(), cfg, database, Request{Category: "Test_pages"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	runs, err := database.ListRuns("", 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(runs))
	}

	run := runs[0]
	if run.Category != "Test_pages" {
		t.Errorf("run category = %q, want Test_pages", run.Category)
	}
	if run.PagesTotal != 2 || run.PagesFetched != 1 || run.PagesFailed != 1 {
		t.Errorf("run counts = %d/%d/%d, want 2/1/1", run.PagesTotal, run.PagesFetched, run.PagesFailed)
	}
	if run.TotalOccurrences != result.Stats().TotalOccurrences {
		t.Errorf("run occurrences = %d, want %d", run.TotalOccurrences, result.Stats().TotalOccurrences)
	}
	if len(run.TopKeywords) == 0 {
		t.Error("run should record top keywords")
	}

	pages, err := database.GetRunPages(run.RunID)
	if err != nil {
		t.Fatalf("GetRunPages() error = %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("recorded pages = %d, want 2", len(pages))
	}
}

func TestRun_ExportWritesDocument(t *testing.T) {
	wiki := &fakeWiki{
		members: map[string][]models.PageRef{
			"Test_pages": {{PageID: 1, NS: 0, Title: "Cat"}},
		},
		extracts: map[string]string{"Cat": "The cat sat on the mat."},
	}
	cfg := newFakeWiki(t, wiki)

	output := filepath.Join(t.TempDir(), "out.json")
	result, err := Run(context.Background(), discardLogger(), cfg, nil, Request{
		Category: "Test_pages",
		Output:   output,
		Format:   export.FormatJSON,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	doc, err := export.Parse(data, export.FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Category != "Test_pages" {
		t.Errorf("export category = %q, want Test_pages", doc.Category)
	}
	if !reflect.DeepEqual(doc.Frequencies, result.Frequencies) {
		t.Errorf("export frequencies = %v, want %v", doc.Frequencies, result.Frequencies)
	}
}
