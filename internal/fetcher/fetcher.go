package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// MaxBodyBytes caps how much of a remote document is read
const MaxBodyBytes = 32 << 20

// FetchResult holds a downloaded document
type FetchResult struct {
	URL         string
	ContentType string // media type without parameters
	Body        []byte
	StatusCode  int
}

// Gate is consulted before each request, typically to rate limit per host
type Gate interface {
	Wait(ctx context.Context, url string) error
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	gate      Gate
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// WithGate makes every fetch wait on g first
func (f *Fetcher) WithGate(g Gate) *Fetcher {
	f.gate = g
	return f
}

// Client returns the underlying HTTP client
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch downloads a document
func (f *Fetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	if f.gate != nil {
		if err := f.gate.Wait(ctx, url); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		result.ContentType = mediaType
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", MaxBodyBytes)
	}
	result.Body = body

	return result, nil
}
