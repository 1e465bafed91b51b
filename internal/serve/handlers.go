// Package serve exposes analysis results as a JSON API: analyzed categories,
// on-demand category analysis, and word cloud data for rendering.
package serve

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtnitsch/wikifreq/internal/analyze"
	"github.com/dtnitsch/wikifreq/internal/common"
	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/db"
	"github.com/dtnitsch/wikifreq/pkg/mapreduce"
	"github.com/dtnitsch/wikifreq/pkg/palette"
	"github.com/dtnitsch/wikifreq/pkg/wikiapi"
	"github.com/dtnitsch/wikifreq/pkg/wordcloud"
)

type Server struct {
	logger   *slog.Logger
	cfg      *models.Config
	database *db.DB
}

func NewServer(logger *slog.Logger, cfg *models.Config, database *db.DB) *Server {
	return &Server{logger: logger, cfg: cfg, database: database}
}

// Router builds the chi router for the API.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/api/categories", s.handleCategories)
	r.Get("/api/analyze/{category}", s.handleAnalyze)
	r.Get("/api/word-cloud/{category}", s.handleWordCloud)
	r.Get("/api/word-cloud/{category}/{palette}", s.handleWordCloud)
	r.Get("/api/color-palettes", s.handlePalettes)

	return r
}

// categoryView is one analyzed category in the /api/categories listing.
type categoryView struct {
	Name             string `json:"name"`
	DisplayName      string `json:"display_name"`
	TotalWords       int    `json:"total_words"`
	TotalOccurrences int    `json:"total_occurrences"`
	AnalyzedAt       string `json:"analyzed_at"`
}

// wordView is one entry of the full frequency list.
type wordView struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

type analysisView struct {
	Category string          `json:"category"`
	Words    []wordView      `json:"words"`
	Stats    models.RunStats `json:"stats"`
}

type paletteView struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	runs, err := s.database.LatestRunsByCategory()
	if err != nil {
		s.logger.Error("Failed to list categories", "error", err)
		jsonErr(w, "internal error", http.StatusInternalServerError)
		return
	}

	categories := make([]categoryView, 0, len(runs))
	for _, run := range runs {
		categories = append(categories, categoryView{
			Name:             run.Category,
			DisplayName:      common.DisplayCategory(run.Category),
			TotalWords:       run.UniqueWords,
			TotalOccurrences: run.TotalOccurrences,
			AnalyzedAt:       run.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, r, http.StatusOK, categories)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	result, ok := s.analyzeCategory(w, r)
	if !ok {
		return
	}

	ranked := mapreduce.Rank(result.Frequencies, 0)
	words := make([]wordView, len(ranked))
	for i, wc := range ranked {
		words[i] = wordView{Word: wc.Word, Frequency: wc.Count}
	}

	writeJSON(w, r, http.StatusOK, analysisView{
		Category: result.Category,
		Words:    words,
		Stats:    result.Stats(),
	})
}

func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	result, ok := s.analyzeCategory(w, r)
	if !ok {
		return
	}

	cloud := wordcloud.Build(result.Category, result.Frequencies, chi.URLParam(r, "palette"))
	writeJSON(w, r, http.StatusOK, cloud)
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]paletteView)
	for name, colors := range palette.All() {
		out[name] = paletteView{Name: title(name), Colors: colors}
	}
	writeJSON(w, r, http.StatusOK, out)
}

// analyzeCategory runs the pipeline for the category named in the URL. It
// writes the error response itself and returns ok=false when the category is
// missing, produced no words, or analysis failed.
func (s *Server) analyzeCategory(w http.ResponseWriter, r *http.Request) (*models.RunResult, bool) {
	category := common.NormalizeCategory(chi.URLParam(r, "category"))
	if category == "" {
		jsonErr(w, "category is required", http.StatusBadRequest)
		return nil, false
	}

	result, err := analyze.Run(r.Context(), s.logger, s.cfg, s.database, analyze.Request{Category: category})
	if err != nil {
		if errors.Is(err, wikiapi.ErrCategoryNotFound) {
			jsonErr(w, "No data found for this category", http.StatusNotFound)
			return nil, false
		}
		s.logger.Error("Analysis failed", "category", category, "error", err)
		jsonErr(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if len(result.Frequencies) == 0 {
		jsonErr(w, "No data found for this category", http.StatusNotFound)
		return nil, false
	}
	return result, true
}

// writeJSON renders v with an ETag so clients can revalidate; a matching
// If-None-Match short-circuits to 304 with no body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		jsonErr(w, "internal error", http.StatusInternalServerError)
		return
	}

	etag := `"` + common.ContentHash(body) + `"`
	w.Header().Set("ETag", etag)
	if status == http.StatusOK && r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// title upper-cases the first letter for display names ("pastel" -> "Pastel").
func title(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
