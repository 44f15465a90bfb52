// Package replication mirrors locally committed movements to a remote
// spreadsheet endpoint over HTTP.
//
// Replication is best-effort: the local write is already durable when Send is
// called, and a failure here only changes the outcome reported to the user.
package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/metrics"
)

const (
	// DefaultMaxRetries is the total number of attempts per Send.
	DefaultMaxRetries = 3
	// DefaultBaseDelay is the wait after the first failed attempt.
	DefaultBaseDelay = time.Second
)

// ErrReplicationFailed is wrapped by every error Send returns after the
// endpoint was tried.
var ErrReplicationFailed = errors.New("replication failed")

// FailedError describes why the last attempt failed.
type FailedError struct {
	Attempts   int
	StatusCode int // 0 when the last attempt got no response
	Body       string
	Err        error
}

func (e *FailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("replication failed after %d attempt(s): status %d: %s", e.Attempts, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("replication failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FailedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrReplicationFailed}
	}
	return []error{ErrReplicationFailed, e.Err}
}

// Payload is the JSON object posted to the endpoint.
type Payload map[string]any

// Result is returned on a 2xx response.
type Result struct {
	Status   string
	Message  string
	Attempts int
}

// Config holds the client settings.
type Config struct {
	URL        string
	MaxRetries int
	BaseDelay  time.Duration

	// Timeout bounds a single attempt. Zero means no per-attempt timeout.
	Timeout time.Duration

	// Rate limits attempts per second across all callers. Zero means unlimited.
	Rate float64
}

// Client posts payloads with retry on transient failures.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    metrics.Recorder
	logger     *slog.Logger

	// sleep waits between attempts; tests replace it to observe delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client. Zero MaxRetries and BaseDelay take the defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	c := &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(limit, 1),
		metrics:    metrics.Nop{},
		logger:     slog.Default(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.URL != ""
}

// Send posts payload to the endpoint. Responses 429, 502 and 503 and network
// errors are retried up to MaxRetries attempts in total, waiting
// BaseDelay*2^(attempt-1) after each failed attempt. Any other non-2xx status
// fails at once.
func (c *Client) Send(ctx context.Context, payload Payload) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	var last *FailedError
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.fail(&FailedError{Attempts: attempt - 1, Err: err})
		}

		c.logger.Debug("sending replication payload",
			"attempt", attempt,
			"max_retries", c.cfg.MaxRetries,
		)

		status, respBody, err := c.post(ctx, body)
		c.metrics.RecordReplicationAttempt(status)

		if err == nil && status >= 200 && status < 300 {
			c.logger.Info("replication succeeded", "attempt", attempt, "status", status)
			c.metrics.RecordReplicationResult(true)
			return &Result{Status: "success", Message: respBody, Attempts: attempt}, nil
		}

		last = &FailedError{Attempts: attempt, StatusCode: status, Body: respBody, Err: err}
		if err == nil && !retryable(status) {
			c.logger.Error("replication rejected", "attempt", attempt, "status", status, "body", respBody)
			return nil, c.fail(last)
		}

		if attempt == c.cfg.MaxRetries {
			break
		}

		delay := c.cfg.BaseDelay * time.Duration(1<<(attempt-1))
		c.logger.Warn("replication attempt failed, retrying",
			"attempt", attempt,
			"status", status,
			"error", err,
			"delay", delay,
		)
		if err := c.sleep(ctx, delay); err != nil {
			last.Err = err
			return nil, c.fail(last)
		}
	}

	c.logger.Error("replication attempts exhausted", "attempts", last.Attempts, "error", last)
	return nil, c.fail(last)
}

func (c *Client) fail(e *FailedError) error {
	c.metrics.RecordReplicationResult(false)
	return e
}

// post makes one attempt. A non-nil error means no response was received.
func (c *Client) post(ctx context.Context, body []byte) (int, string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, string(respBody), nil
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable:
		return true
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
