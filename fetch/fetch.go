// Package fetch implements the browserless reader path: a single HTTP GET
// that returns page HTML for text extraction and markdown conversion. No
// browser, no JS — enough for static articles.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/liseuse/safeurl"
)

// Result is the outcome of a reader fetch.
type Result struct {
	URL         string
	HTML        []byte
	StatusCode  int
	ContentType string
}

// Fetcher performs validated HTTP GETs for the reader path.
type Fetcher struct {
	client *http.Client
	ua     string
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.ua = ua }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher with sensible defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		ua:     "Mozilla/5.0 (compatible; Liseuse/1.0)",
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch validates pageURL and GETs it, returning the HTML body. Responses
// over safeurl.MaxResponseBody are rejected. Non-2xx statuses are returned
// as errors since the reader path has no use for error pages.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	if err := safeurl.Validate(pageURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: %s returned status %d", pageURL, resp.StatusCode)
	}

	body, err := safeurl.LimitedReadAll(resp.Body, safeurl.MaxResponseBody)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}

	f.logger.Debug("fetch: fetched",
		"url", pageURL, "status", resp.StatusCode, "size", len(body))

	return &Result{
		URL:         pageURL,
		HTML:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
