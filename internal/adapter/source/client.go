package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxDocumentBytes bounds a single source document.
const maxDocumentBytes = 64 << 20

// Client retrieves source documents from http(s) URLs or local files.
type Client struct {
	httpClient *http.Client
	maxRetries uint64
	backoff    func() backoff.BackOff
	logger     *slog.Logger
}

// NewClient creates a client whose HTTP requests time out after timeout and
// are retried up to maxRetries times on transport errors and 5xx responses.
func NewClient(timeout time.Duration, maxRetries int, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: uint64(max(maxRetries, 0)),
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
		logger: logger,
	}
}

// Fetch returns the document at location. Locations with an http or https
// scheme are fetched over the network; file:// URLs and plain paths are read
// from disk.
func (c *Client) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return c.fetchHTTP(ctx, location)
	}
	if err == nil && u.Scheme == "file" {
		return readFile(u.Path)
	}
	return readFile(location)
}

func (c *Client) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		data, err := c.doRequest(ctx, location)
		if err != nil {
			c.logger.Debug("source fetch attempt failed", "location", location, "attempt", attempt, "error", err)
			return err
		}
		body = data
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("fetch: %w", err))
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxDocumentBytes {
		return nil, backoff.Permanent(errors.New("document exceeds size limit"))
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}
