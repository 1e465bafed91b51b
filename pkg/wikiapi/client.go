// Package wikiapi talks to the MediaWiki Action API: category member
// listings, plain-text extracts, and rendered-HTML fallbacks.
package wikiapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/wikifreq/models"
)

const (
	requestTimeout  = 30 * time.Second
	memberBatchSize = 500 // categorymembers page size (API maximum for anonymous clients)
	retryBaseDelay  = 500 * time.Millisecond
)

// Client is a MediaWiki API client. Every request waits out a politeness
// delay first, and transient failures are retried with exponential backoff.
type Client struct {
	client     *http.Client
	endpoint   string
	userAgent  string
	delay      time.Duration
	retryDelay time.Duration
	maxRetries int
	logger     *slog.Logger
}

// NewClient builds a client from the resolved configuration. A nil logger
// silences retry warnings.
func NewClient(cfg *models.Config, logger *slog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: requestTimeout,
		},
		endpoint:   cfg.Endpoint,
		userAgent:  cfg.UserAgent,
		delay:      time.Duration(cfg.RequestDelayMS) * time.Millisecond,
		retryDelay: retryBaseDelay,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// ListCategoryMembers returns every page directly in the category, following
// the cmcontinue cursor until the API stops returning one. Zero members
// triggers an existence probe so a missing category surfaces as
// ErrCategoryNotFound rather than an empty result.
func (c *Client) ListCategoryMembers(ctx context.Context, category string) ([]models.PageRef, error) {
	members, err := c.listMembers(ctx, category, "page")
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		missing, err := c.categoryMissing(ctx, category)
		if err != nil {
			return nil, err
		}
		if missing {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
		}
	}
	return members, nil
}

// ListSubcategories returns the category's direct subcategories (namespace
// 14). No existence probe here: an empty result during traversal just means
// the branch ends.
func (c *Client) ListSubcategories(ctx context.Context, category string) ([]models.PageRef, error) {
	return c.listMembers(ctx, category, "subcat")
}

func (c *Client) listMembers(ctx context.Context, category, memberType string) ([]models.PageRef, error) {
	var members []models.PageRef
	cont := ""

	for {
		params := url.Values{}
		params.Set("action", "query")
		params.Set("list", "categorymembers")
		params.Set("cmtitle", "Category:"+category)
		params.Set("cmlimit", strconv.Itoa(memberBatchSize))
		params.Set("cmtype", memberType)
		params.Set("format", "json")
		if cont != "" {
			params.Set("cmcontinue", cont)
		}

		body, err := c.get(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of %q: %w", category, err)
		}

		var resp memberListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse member list: %w", err)
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("API error %s: %s", resp.Error.Code, resp.Error.Info)
		}

		members = append(members, resp.Query.CategoryMembers...)

		if resp.Continue.CmContinue == "" {
			return members, nil
		}
		cont = resp.Continue.CmContinue
	}
}

// categoryMissing checks whether the category page exists at all.
func (c *Client) categoryMissing(ctx context.Context, category string) (bool, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", "Category:"+category)
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return false, fmt.Errorf("failed to probe category %q: %w", category, err)
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("failed to parse category probe: %w", err)
	}
	if resp.Error != nil {
		return false, fmt.Errorf("API error %s: %s", resp.Error.Code, resp.Error.Info)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing != nil {
			return true, nil
		}
	}
	return false, nil
}

// FetchExtract returns the page's plain-text extract. A blank extract maps
// to ErrEmptyExtract; a page object without the extract property maps to
// ErrNoTextExtracts so the caller can fall back to FetchParseHTML.
func (c *Client) FetchExtract(ctx context.Context, title string) (string, error) {
	return c.fetchExtract(ctx, title, true)
}

// FetchExtractHTML returns the extract with markup intact (explaintext
// dropped), for callers that flatten HTML themselves.
func (c *Client) FetchExtractHTML(ctx context.Context, title string) (string, error) {
	return c.fetchExtract(ctx, title, false)
}

func (c *Client) fetchExtract(ctx context.Context, title string, plain bool) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "extracts")
	if plain {
		params.Set("explaintext", "1")
		params.Set("exsectionformat", "plain")
	}
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to fetch extract for %q: %w", title, err)
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse extract response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error %s: %s", resp.Error.Code, resp.Error.Info)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing != nil {
			return "", fmt.Errorf("page %q does not exist", title)
		}
		if page.Extract == nil {
			return "", fmt.Errorf("%w for %q", ErrNoTextExtracts, title)
		}
		if strings.TrimSpace(*page.Extract) == "" {
			return "", fmt.Errorf("%w: %s", ErrEmptyExtract, title)
		}
		return *page.Extract, nil
	}
	return "", fmt.Errorf("no page in extract response for %q", title)
}

// FetchParseHTML returns the page rendered to HTML via action=parse. This is
// the fallback for wikis where prop=extracts is unavailable.
func (c *Client) FetchParseHTML(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("format", "json")

	body, err := c.get(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to fetch parsed HTML for %q: %w", title, err)
	}

	var resp parseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse action=parse response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error %s: %s", resp.Error.Code, resp.Error.Info)
	}

	if strings.TrimSpace(resp.Parse.Text.HTML) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyExtract, title)
	}
	return resp.Parse.Text.HTML, nil
}

// get performs one API GET, retrying transient failures (network errors,
// HTTP 429 and 5xx) up to maxRetries with doubling backoff.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	rawURL := c.endpoint + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay << (attempt - 1)
			if c.logger != nil {
				c.logger.Warn("retrying request", "attempt", attempt, "backoff", backoff.String(), "error", lastErr.Error())
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.pause(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := c.do(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

// pause waits out the politeness delay, giving up early on cancellation.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}

// do performs a single attempt. The bool reports whether the failure is
// worth retrying.
func (c *Client) do(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, false, nil
}
