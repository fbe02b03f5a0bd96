// Package lcu talks to the local League Client (LCU) REST and websocket APIs.
package lcu

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"leaguehelper/internal/build"
	"leaguehelper/internal/logging"

	"go.uber.org/zap"
)

// Client represents a connection to the League Client
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.RWMutex
	credentials *Credentials
	baseURL     string
	authHeader  string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a fixed address, bypassing the lockfile
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(logger) }
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// NewClient creates a new LCU client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, // LCU uses self-signed cert
				},
			},
			Timeout: 2 * time.Second, // Short timeout for quick disconnect detection
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("lcu")
	return c
}

// Connect establishes connection to the League Client
func (c *Client) Connect(ctx context.Context, creds *Credentials) error {
	c.mu.Lock()
	c.credentials = creds
	c.baseURL = fmt.Sprintf("https://127.0.0.1:%s", creds.Port)
	c.authHeader = basicAuth("riot", creds.Password)
	c.mu.Unlock()

	// Test connection
	if _, err := c.CurrentSummoner(ctx); err != nil {
		c.Disconnect()
		return fmt.Errorf("failed to connect to LCU: %w", err)
	}

	c.logger.Info("connected", zap.String("port", creds.Port))
	return nil
}

// IsConnected checks if the client is still connected to LCU
// by making a health check request
func (c *Client) IsConnected(ctx context.Context) bool {
	if c.base() == "" {
		return false
	}

	if _, err := c.CurrentSummoner(ctx); err != nil {
		c.logger.Debug("connection lost", zap.Error(err))
		return false
	}
	return true
}

// Credentials returns the current LCU credentials
func (c *Client) Credentials() *Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credentials
}

// Disconnect forgets the current credentials
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentials = nil
	c.baseURL = ""
	c.authHeader = ""
}

func (c *Client) base() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// do performs a request and decodes a JSON response into out (when non-nil).
// Any failure is reported as build.ErrTransport.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	c.mu.RLock()
	baseURL, auth := c.baseURL, c.authHeader
	c.mu.RUnlock()

	if baseURL == "" {
		return fmt.Errorf("%w: %w", build.ErrTransport, ErrLeagueNotRunning)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+endpoint, reader)
	if err != nil {
		return err
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", build.ErrTransport, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", build.ErrTransport, method, endpoint, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", build.ErrTransport, method, endpoint, err)
	}
	return nil
}

// Summoner is the logged in player
type Summoner struct {
	SummonerID  int64  `json:"summonerId"`
	PUUID       string `json:"puuid"`
	GameName    string `json:"gameName"`
	TagLine     string `json:"tagLine"`
	DisplayName string `json:"displayName"`
}

// CurrentSummoner returns the logged in summoner
func (c *Client) CurrentSummoner(ctx context.Context) (*Summoner, error) {
	var s Summoner
	if err := c.do(ctx, http.MethodGet, "/lol-summoner/v1/current-summoner", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// basicAuth encodes credentials for basic auth
func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
