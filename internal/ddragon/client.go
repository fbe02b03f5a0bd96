// Package ddragon loads official reference data (versions, champions and the
// rune tree) from Riot's Data Dragon CDN.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"leaguehelper/internal/build"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://ddragon.leagueoflegends.com"
	DefaultLocale  = "en_US"
)

// Client fetches reference data from Data Dragon
type Client struct {
	httpClient *http.Client
	baseURL    string
	locale     string
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing)
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithLocale sets the data locale (default en_US)
func WithLocale(locale string) Option {
	return func(c *Client) {
		if locale != "" {
			c.locale = locale
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Data Dragon client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		locale:     DefaultLocale,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestVersion returns the newest released version (e.g. "14.23.1")
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.getJSON(ctx, c.baseURL+"/api/versions.json", &versions); err != nil {
		return "", fmt.Errorf("failed to fetch versions: %w", err)
	}

	if len(versions) == 0 {
		return "", fmt.Errorf("no versions available: %w", build.ErrVersionUnavailable)
	}

	return versions[0], nil
}

// getJSON performs a GET request and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", build.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: Data Dragon returned status %d", build.ErrTransport, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return nil
}
