package jobsignal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultFetchTimeout bounds a single posting download.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultUserAgent is sent with every posting request.
	DefaultUserAgent = "Mozilla/5.0 (compatible; cv_agent/1.0)"
	// DefaultMaxPageBytes caps the size of a downloaded posting page.
	DefaultMaxPageBytes = 5 << 20
)

// FetchOptions configures posting downloads.
type FetchOptions struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Client    *http.Client
}

// DefaultFetchOptions returns the options used when nil is passed to Fetch.
func DefaultFetchOptions() *FetchOptions {
	return &FetchOptions{
		Timeout:   DefaultFetchTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxPageBytes,
	}
}

// Fetch downloads the HTML of a job posting page. Pages rendered client-side
// yield little text; save those from a browser and pass the file instead.
func Fetch(ctx context.Context, rawURL string, opts *FetchOptions) (string, error) {
	if opts == nil {
		opts = DefaultFetchOptions()
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", &FetchError{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxPageBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > limit {
		return "", &FetchError{URL: rawURL, Message: fmt.Sprintf("page exceeds %d bytes", limit)}
	}
	return string(body), nil
}
