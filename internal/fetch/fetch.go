// Package fetch retrieves CSV source tables over HTTP, so merge inputs can
// be URLs as well as local files.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tvparse/internal/csvio"
)

// Options parameterise the HTTP source client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Client downloads remote CSV tables.
type Client struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// New constructs a client.
func New(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		opts:   opts,
		logger: logger.With().Str("component", "fetch").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

// IsURL reports whether an input reference is an HTTP(S) URL.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Fetch downloads and parses a remote CSV table.
func (c *Client) Fetch(ctx context.Context, url string) (*csvio.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "tvparse/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", csvio.ErrSourceNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	t, err := csvio.Read(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	c.logger.Debug().Str("url", url).Int("rows", t.Len()).Msg("fetched remote source")
	return t, nil
}
