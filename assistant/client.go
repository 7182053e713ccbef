// Package assistant is a thin client for the local assistant service: three
// idempotent JSON request/response operations (summarise, interpret, ask)
// plus a health probe. No state is held between calls; any non-2xx status
// or transport failure surfaces as a *ServerError with the best available
// diagnostic text. Retry policy is the caller's concern — there is none here.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is where the assistant service listens in local setups.
const DefaultBaseURL = "http://localhost:3000"

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 2048

// Summary is the structured result of the summarise operation.
type Summary struct {
	TLDR       string   `json:"tldr"`
	Bullets    []string `json:"bullets"`
	KeyActions []string `json:"key_actions"`
	Raw        string   `json:"raw"`
}

// ServerError carries the HTTP status and response body of a failed call.
// StatusCode 0 means the request never reached the service.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assistant: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("assistant: %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *ServerError) Unwrap() error { return e.Err }

// Client calls the assistant service.
type Client struct {
	base   string
	client *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a Client for the given base URL. Empty baseURL uses
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 60 * time.Second},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured endpoint, for user-facing hints.
func (c *Client) BaseURL() string { return c.base }

// Summarise sends page text and returns the structured summary.
func (c *Client) Summarise(ctx context.Context, text string) (*Summary, error) {
	var out Summary
	if err := c.post(ctx, "summarise", "/summarise", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Interpret maps a free-text utterance to one normalised command string.
func (c *Client) Interpret(ctx context.Context, utterance string) (string, error) {
	var out struct {
		Command string `json:"command"`
	}
	if err := c.post(ctx, "interpret", "/interpret", map[string]string{"request": utterance}, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Command), nil
}

// Ask sends a free-form question, optionally with page text as context,
// and returns the answer verbatim.
func (c *Client) Ask(ctx context.Context, question, pageText string) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	body := map[string]string{"input": question, "page_text": pageText}
	if err := c.post(ctx, "ask", "/ask", body, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Answer), nil
}

// Health probes the service. A nil error means it is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return &ServerError{Op: "health", Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &ServerError{Op: "health", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode/100 != 2 {
		return &ServerError{Op: "health", StatusCode: resp.StatusCode, Body: resp.Status}
	}
	return nil
}

func (c *Client) post(ctx context.Context, op, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ServerError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return &ServerError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &ServerError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServerError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.logger.Debug("assistant: call done", "op", op, "elapsed", time.Since(start))
	return nil
}
