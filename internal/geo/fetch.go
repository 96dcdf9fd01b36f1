// Package geo fetches, parses and caches the county boundary reference.
package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
)

// maxDocumentSize caps how much of a boundary document is read.
const maxDocumentSize = 64 << 20

// FetchError describes a failed boundary download.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch boundaries from %s: status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch boundaries from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads a boundary document. Sources without an http(s) scheme
// are read from disk; a file:// prefix is stripped.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. A nil client gets one with the given timeout.
func NewFetcher(client *http.Client, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client}
}

// Fetch returns the raw document at source.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !isRemote(source) {
		path := strings.TrimPrefix(source, "file://")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &FetchError{Source: source, Err: err}
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: source, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &FetchError{Source: source, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	logger.Debug("Fetched boundaries", "source", source, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
