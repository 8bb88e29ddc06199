// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the ObsidianAI backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the number of attempts for transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// Error variables for common backend errors.
var (
	// ErrUnauthorized indicates the session is missing or expired.
	ErrUnauthorized = errors.New("not authenticated")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance indicates the account balance is exhausted.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrMissingKey indicates no provider API key is configured for
	// the account.
	ErrMissingKey = errors.New("no API key configured")
)

// APIError represents an error response from the backend.
type APIError struct {
	Status  int    // HTTP status code
	Message string // Server-provided message, or the operation fallback
	Op      string // Operation name, e.g. "send message"
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsAccountLevel reports whether an error describes an account-level
// blocking condition (exhausted balance or a missing provider key).
// These warrant a blocking alert on top of the inline error turn: the
// user cannot diagnose them from the chat view alone.
func IsAccountLevel(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrMissingKey)
}

// apiErrorBody is the backend's error response shape.
type apiErrorBody struct {
	Error string `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the ObsidianAI backend API.
//
// The zero value is not usable; construct with New. A cookie jar holds
// the session cookie across calls, mirroring fetch credentials:include.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
	logger     *log.Logger
	userAgent  string
}

// New creates a client for the backend at baseURL (e.g.
// "https://chat.example.com"; the "/api" prefix is appended per call).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		maxRetries: DefaultMaxRetries,
		// Background lookups (username availability) are paced so a
		// fast typist cannot flood the backend between debounces.
		limiter:   rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
		logger:    log.New(io.Discard, "", 0),
		userAgent: "obsidian-tui/" + Version,
	}, nil
}

// Version is the client version reported in the User-Agent header.
// Overridden at build time by main.
var Version = "0.1.0"

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of attempts per request.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	if maxRetries > 0 {
		c.maxRetries = maxRetries
	}
	return c
}

// WithLogger sets the request logger.
func (c *Client) WithLogger(logger *log.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// url joins the API prefix and path.
func (c *Client) url(path string) string {
	return c.baseURL + "/api" + path
}

// logRequest logs a request without bodies or cookies.
func (c *Client) logRequest(method, path string) {
	c.logger.Printf("API request: %s %s", method, path)
}

// logResponse logs status and duration only.
func (c *Client) logResponse(path string, status int, duration time.Duration) {
	c.logger.Printf("API response: %s -> %d (%v)", path, status, duration)
}

// readBody reads a response body with the size limit applied.
func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// errorFromResponse converts a non-2xx response into an error,
// preferring the server's message over the fallback.
func errorFromResponse(op string, fallback string, status int, body []byte) error {
	msg := fallback
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		msg = parsed.Error
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	// The backend reports an unconfigured provider key and some balance
	// failures in the message rather than a dedicated status.
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "api key"):
		return fmt.Errorf("%w: %s", ErrMissingKey, msg)
	case strings.Contains(lower, "insufficient balance"):
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, msg)
	}
	return &APIError{Status: status, Message: msg, Op: op}
}

// isRetryable reports whether an attempt should be retried.
func isRetryable(err error, status int) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if err != nil {
		return true // transport error
	}
	return status >= 500 || status == http.StatusTooManyRequests
}

// backoff returns the delay before the given retry attempt.
func backoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// do runs one request-building function through the retry loop and
// decodes a 2xx response into out (which may be nil).
//
// The builder runs once per attempt so each retry gets a fresh,
// re-readable body.
func (c *Client) do(ctx context.Context, op, fallback string, build func() (*http.Request, error), out any) error {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(attempt - 1)):
			}
		}

		req, err := build()
		if err != nil {
			return fmt.Errorf("%s: failed to create request: %w", op, err)
		}
		req = req.WithContext(ctx)
		req.Header.Set("User-Agent", c.userAgent)

		c.logRequest(req.Method, req.URL.Path)
		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s: request failed: %w", op, err)
			if !isRetryable(err, 0) {
				return lastErr
			}
			continue
		}

		body, readErr := readBody(resp)
		resp.Body.Close()
		c.logResponse(req.URL.Path, resp.StatusCode, time.Since(start))
		if readErr != nil {
			return fmt.Errorf("%s: %w", op, readErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err := errorFromResponse(op, fallback, resp.StatusCode, body)
			if isRetryable(nil, resp.StatusCode) {
				lastErr = err
				continue
			}
			return err
		}

		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s: failed to parse response: %w", op, err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, op, fallback, path string, out any) error {
	return c.do(ctx, op, fallback, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, c.url(path), nil)
	}, out)
}

// sendJSON issues a request with a JSON body and decodes the response
// into out (which may be nil).
func (c *Client) sendJSON(ctx context.Context, op, fallback, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal request: %w", op, err)
	}
	return c.do(ctx, op, fallback, func() (*http.Request, error) {
		req, err := http.NewRequest(method, c.url(path), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, out)
}
