package wikiapi

import (
	"errors"

	"github.com/dtnitsch/wikifreq/models"
)

var (
	// ErrCategoryNotFound reports that the category page itself does not
	// exist on the wiki, as opposed to existing with zero members.
	ErrCategoryNotFound = errors.New("category does not exist")

	// ErrEmptyExtract reports a page whose extract came back blank.
	ErrEmptyExtract = errors.New("empty extract")

	// ErrNoTextExtracts reports a page object without the extract property,
	// which happens on wikis running without the TextExtracts extension.
	ErrNoTextExtracts = errors.New("no extract property in response")
)

// apiError is the error object MediaWiki returns in place of query results.
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// memberListResponse is the shape of a list=categorymembers response.
type memberListResponse struct {
	Error    *apiError `json:"error"`
	Continue struct {
		CmContinue string `json:"cmcontinue"`
	} `json:"continue"`
	Query struct {
		CategoryMembers []models.PageRef `json:"categorymembers"`
	} `json:"query"`
}

// queryPage is one entry of query.pages. Missing and Extract are pointers
// so an absent property can be told apart from an empty one: missing pages
// carry `"missing": ""`, and wikis without TextExtracts return page objects
// with no extract property at all.
type queryPage struct {
	PageID  int     `json:"pageid"`
	NS      int     `json:"ns"`
	Title   string  `json:"title"`
	Missing *string `json:"missing"`
	Extract *string `json:"extract"`
}

// queryResponse covers prop=extracts fetches and bare title probes. With
// format=json the pages object is keyed by pageid string ("-1" for missing
// titles), so it decodes as a map.
type queryResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Pages map[string]queryPage `json:"pages"`
	} `json:"query"`
}

// parseResponse is the shape of an action=parse response. The rendered
// HTML sits under the "*" key of parse.text.
type parseResponse struct {
	Error *apiError `json:"error"`
	Parse struct {
		Title string `json:"title"`
		Text  struct {
			HTML string `json:"*"`
		} `json:"text"`
	} `json:"parse"`
}
