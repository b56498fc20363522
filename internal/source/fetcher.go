package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/worker"
)

// sleepFunc is the backoff sleep used between retries (injectable for tests).
var sleepFunc = time.Sleep

// defaultHostRate paces requests per host, independent of the per-adapter
// hourly caps.
const (
	defaultHostRate  = 2.0
	defaultHostBurst = 4
)

// Fetcher is the shared outbound HTTP client for all adapters: one deadline
// per request, per-host pacing, a body size cap, and retry with exponential
// backoff on transient failures. A 429 maps to ErrRateLimited.
type Fetcher struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	userAgent  string
	maxBytes   int64
	maxRetries int
	delay      time.Duration
}

// NewFetcher creates a fetcher from the shared HTTP configuration.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:    worker.NewLimiter(defaultHostRate, defaultHostBurst),
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: maxRetries,
	}
}

// WithDelay returns a fetcher that pauses for d before each request, on top
// of the per-host rate clearance. The HTTP client and limiter are shared
// with the receiver, so adapters carrying different delays still pace the
// same hosts together.
func (f *Fetcher) WithDelay(d time.Duration) *Fetcher {
	clone := *f
	clone.delay = d
	return &clone
}

// Get fetches a URL and returns the body, retrying transient failures.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return f.do(ctx, http.MethodGet, rawURL, nil, "")
}

// GetJSON fetches a URL and decodes the JSON body into v.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := f.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// PostJSON sends a JSON body and decodes the JSON response into v. The
// bearer token is attached when non-empty.
func (f *Fetcher) PostJSON(ctx context.Context, rawURL string, payload any, bearer string, v any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	body, err := f.do(ctx, http.MethodPost, rawURL, data, bearer)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (f *Fetcher) do(ctx context.Context, method, rawURL string, payload []byte, bearer string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			sleepFunc(backoff)
		}

		body, err := f.once(ctx, method, rawURL, payload, bearer)
		if err == nil {
			return body, nil
		}
		if err == ErrRateLimited || ctx.Err() != nil || !isTransient(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (f *Fetcher) once(ctx context.Context, method, rawURL string, payload []byte, bearer string) ([]byte, error) {
	if err := f.limiter.WaitWithDelay(ctx, rawURL, f.delay); err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// isTransient reports whether an error is worth retrying: 5xx statuses,
// timeouts, DNS and connection failures.
func isTransient(err error) bool {
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "unexpected status 5") {
		return true
	}
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "deadline exceeded") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
