// Package api is the HTTP client for the quest backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"questrpg/pkg/logger"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

const maxErrorBody = 1 << 20

// UnauthorizedHandler is invoked for every 401 before the error is returned.
type UnauthorizedHandler func(ctx context.Context)

// Client handles HTTP API communication
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu             sync.RWMutex
	token          string
	onUnauthorized UnauthorizedHandler
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit throttles outgoing requests. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUnauthorizedHandler sets the global 401 hook.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// NewClient creates a new API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: utils.DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer credential. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer credential.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetUnauthorizedHandler replaces the global 401 hook.
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.mu.Lock()
	c.onUnauthorized = h
	c.mu.Unlock()
}

// BaseURL
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one request and decodes a 2xx JSON body into target. Every
// failure comes back as a *models.AppError.
func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return models.NewNetworkError(err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := int(time.Since(start).Milliseconds())
	if err != nil {
		logger.HTTP(method, path, 0, latency)
		if utils.IsContextError(err) {
			logger.WithFields(map[string]interface{}{"path": path, "error": err}).Debug("request abandoned")
		}
		return models.NewNetworkError(err)
	}
	defer resp.Body.Close()
	logger.HTTP(method, path, resp.StatusCode, latency)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(ctx, resp)
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return models.NewNetworkError(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// decodeError maps a non-2xx response and fires the 401 hook.
func (c *Client) decodeError(ctx context.Context, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body models.ErrorResponse
	detail := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		detail = body.Message()
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook(ctx)
		}
	}
	return models.FromHTTPStatus(resp.StatusCode, detail)
}

func escape(id string) string {
	return url.PathEscape(id)
}

func withLimit(path string, limit int) string {
	if limit <= 0 {
		return path
	}
	return fmt.Sprintf("%s?limit=%d", path, limit)
}
