// Package export builds and writes the analysis document for a completed
// run. The document carries the full frequency table, so loading it back
// recovers exactly the counts that were written.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wikifreq/models"
	"github.com/dtnitsch/wikifreq/pkg/storage"
)

// Formats accepted by Encode and Parse.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is the exported analysis for one category.
type Document struct {
	Category    string `json:"category" yaml:"category"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	PagesTotal   int `json:"pages_total" yaml:"pages_total"`
	PagesFetched int `json:"pages_fetched" yaml:"pages_fetched"`
	PagesFailed  int `json:"pages_failed" yaml:"pages_failed"`
	PagesEmpty   int `json:"pages_empty" yaml:"pages_empty"`
	PagesSkipped int `json:"pages_skipped" yaml:"pages_skipped"`

	Stats models.RunStats `json:"stats" yaml:"stats"`

	FailedPages []string `json:"failed_pages,omitempty" yaml:"failed_pages,omitempty"`

	// Frequencies is the full untruncated word table.
	Frequencies map[string]int `json:"frequencies" yaml:"frequencies"`
}

// Build assembles the export document from a run result.
func Build(result *models.RunResult) Document {
	return Document{
		Category:     result.Category,
		GeneratedAt:  time.Now().Format(time.RFC3339),
		PagesTotal:   result.PagesTotal,
		PagesFetched: result.PagesFetched,
		PagesFailed:  result.PagesFailed,
		PagesEmpty:   result.PagesEmpty,
		PagesSkipped: result.PagesSkipped,
		Stats:        result.Stats(),
		FailedPages:  result.FailedTitles(),
		Frequencies:  result.Frequencies,
	}
}

// Result reconstructs a run result from a loaded document. Failed pages come
// back as outcomes with their titles; per-page word counts are not part of
// the document and stay empty.
func (d Document) Result() *models.RunResult {
	result := &models.RunResult{
		Category:     d.Category,
		PagesTotal:   d.PagesTotal,
		PagesFetched: d.PagesFetched,
		PagesFailed:  d.PagesFailed,
		PagesEmpty:   d.PagesEmpty,
		PagesSkipped: d.PagesSkipped,
		FromCache:    true,
		Frequencies:  d.Frequencies,
	}
	for _, title := range d.FailedPages {
		result.Pages = append(result.Pages, models.PageOutcome{
			Title:     title,
			Status:    models.PageStatusFailed,
			ErrorType: models.ErrorTypeFetch,
		})
	}
	return result
}

// Encode renders the document in the requested format. An empty format means
// JSON.
func Encode(doc Document, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error marshalling document: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("error marshalling document: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Parse decodes a document previously produced by Encode.
func Parse(data []byte, format string) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("error parsing document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("error parsing document: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unknown export format %q", format)
	}
	return doc, nil
}

// Write renders the document and saves it to path.
func Write(s *storage.Storage, path string, doc Document, format string) error {
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	if err := s.SaveFile(path, data); err != nil {
		return fmt.Errorf("error saving export: %w", err)
	}
	return nil
}
