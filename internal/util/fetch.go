package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ppiankov/claimcheck/internal/worker"
)

// ErrStatus is returned for non-2xx responses
var ErrStatus = errors.New("unexpected status")

// Response is a bounded response body and its metadata
type Response struct {
	StatusCode  int
	ContentType string
	FinalURL    string
	Body        []byte
}

// Fetcher performs throttled, size-bounded GET requests
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	limiter   *worker.Limiter
}

// NewFetcher creates a fetcher. A nil limiter disables throttling; a
// non-positive maxBytes defaults to 2 MB.
func NewFetcher(client *http.Client, userAgent string, maxBytes int64, limiter *worker.Limiter) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &Fetcher{client: client, userAgent: userAgent, maxBytes: maxBytes, limiter: limiter}
}

// UserAgent returns the User-Agent sent with every request
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// Client returns the underlying HTTP client
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Get fetches rawURL. The body is truncated at the size bound rather than
// rejected, since callers only need a prefix of large pages.
func (f *Fetcher) Get(ctx context.Context, rawURL, accept string) (*Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		Body:        body,
	}, nil
}
