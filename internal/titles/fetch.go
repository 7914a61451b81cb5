package titles

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultMaxBodyBytes bounds how much of a response is parsed.
	DefaultMaxBodyBytes int64 = 1 << 20
	// DefaultUserAgent identifies title lookups to remote servers.
	DefaultUserAgent = "go-linkify/1.0 (+title-resolver)"
)

// HTTPFetcher retrieves titles over HTTP(S).
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	maxLength    int
}

// FetcherOption configures the HTTP fetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) FetcherOption {
	return func(f *HTTPFetcher) {
		if agent != "" {
			f.userAgent = agent
		}
	}
}

// WithMaxBodyBytes bounds the number of response bytes parsed.
func WithMaxBodyBytes(limit int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if limit > 0 {
			f.maxBodyBytes = limit
		}
	}
}

// WithMaxTitleLength bounds extracted titles, in runes.
func WithMaxTitleLength(length int) FetcherOption {
	return func(f *HTTPFetcher) {
		if length > 0 {
			f.maxLength = length
		}
	}
}

// NewHTTPFetcher constructs a fetcher with default limits.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:       &http.Client{Timeout: 30 * time.Second},
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		maxLength:    DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchTitle downloads href and extracts its title. The context bounds the
// whole request, body read included.
func (f *HTTPFetcher) FetchTitle(ctx context.Context, href string) (string, error) {
	host := hostOf(href)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return "", fetchFailed(err, host)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fetchFailed(err, host)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", unexpectedStatus(resp.StatusCode, host)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return "", fetchFailed(err, host)
	}

	title := ExtractTitle(doc, f.maxLength)
	if title == "" {
		return "", ErrTitleNotFound
	}
	return title, nil
}

func hostOf(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return parsed.Host
}
