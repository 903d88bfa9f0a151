// Package tcgdex is the HTTP client for the TCGdex card database.
//
// TCGdex serves every entity twice: a list endpoint returning short
// "resume" records and a detail endpoint per id. Responses are plain JSON
// arrays or objects with no envelope. Rate limiting is handled via a token
// bucket limiter.
package tcgdex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pokevault/catalog-api/internal/catalog"
)

// Client fetches series, sets and cards in one language.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a TCGdex client. requestsPerMinute <= 0 disables
// client-side rate limiting.
func NewClient(baseURL, language string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// ListSeries returns the serie resumes.
func (c *Client) ListSeries(ctx context.Context) ([]catalog.Resume, error) {
	var out []catalog.Resume
	return out, c.get(ctx, "/series", &out)
}

// GetSerie returns one serie.
func (c *Client) GetSerie(ctx context.Context, id string) (*catalog.Serie, error) {
	var out catalog.Serie
	if err := c.get(ctx, "/series/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSets returns the set resumes.
func (c *Client) ListSets(ctx context.Context) ([]catalog.Resume, error) {
	var out []catalog.Resume
	return out, c.get(ctx, "/sets", &out)
}

// GetSet returns one set with its embedded serie summary.
func (c *Client) GetSet(ctx context.Context, id string) (*catalog.Set, error) {
	var out catalog.Set
	if err := c.get(ctx, "/sets/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCards returns the card resumes across every set.
func (c *Client) ListCards(ctx context.Context) ([]catalog.Resume, error) {
	var out []catalog.Resume
	return out, c.get(ctx, "/cards", &out)
}

// GetCard returns one card with its embedded set summary.
func (c *Client) GetCard(ctx context.Context, id string) (*catalog.Card, error) {
	var out catalog.Card
	if err := c.get(ctx, "/cards/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get performs a rate-limited GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + "/" + url.PathEscape(c.language) + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Path: path, Code: resp.StatusCode, Body: truncate(body, 200)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	c.logger.Debug("TCGdex request", "path", path, "bytes", len(body))
	return nil
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TCGdex %s returned %d: %s", e.Path, e.Code, e.Body)
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
