package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
)

// Defaults used when the configuration leaves a value unset.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
	maxErrorBody      = 512
)

// HTTPClient posts webhook payloads, retrying rate limits, server errors
// and transport failures with doubling delays.
type HTTPClient struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

// NewHTTPClient creates a client. Non-positive timeout and negative
// maxRetries fall back to the defaults.
func NewHTTPClient(timeout time.Duration, maxRetries int) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &HTTPClient{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: DefaultRetryDelay,
		userAgent:  "eventcal/1.0",
	}
}

// SendResult is the outcome of one Send.
type SendResult struct {
	StatusCode int
	Duration   time.Duration
	Attempts   int
	Error      error
}

// Send POSTs body to url. Recoverable failures that persist past the last
// retry are returned as a RecoverableError counting the retries made.
func (c *HTTPClient) Send(ctx context.Context, url, contentType string, body []byte) *SendResult {
	result := &SendResult{}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	var retries *errors.RecoverableError
	delay := c.retryDelay
	for {
		result.Attempts++
		status, err := c.post(ctx, url, contentType, body)
		result.StatusCode = status
		result.Error = err
		if err == nil || !errors.IsRecoverableCategory(err) {
			return result
		}
		logging.DebugLog("webhook attempt failed",
			logging.KeyURL, url, logging.KeyStatus, status, "attempt", result.Attempts, logging.KeyError, err)

		if retries == nil {
			retries = errors.NewRecoverableError("webhook delivery failed", err, c.maxRetries)
		}
		retries.Cause = err
		if !retries.CanRetry {
			break
		}
		retries.IncrementRetry()

		select {
		case <-ctx.Done():
			result.Error = ctx.Err()
			return result
		case <-time.After(delay):
		}
		delay *= 2
	}

	retries.Message = "webhook delivery failed: " + retries.Cause.Error()
	result.Error = retries
	return result
}

// post performs one request. Failures worth another attempt are tagged
// CategoryRecoverable.
func (c *HTTPClient) post(ctx context.Context, url, contentType string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, errors.Wrap(errors.ErrNetworkUnavailable, err.Error())
	}
	defer resp.Body.Close()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return resp.StatusCode, errors.WithCategory(fmt.Errorf("rate limited (HTTP 429)"), errors.CategoryRecoverable)
	case resp.StatusCode >= 500:
		return resp.StatusCode, errors.WithCategory(
			fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, msg), errors.CategoryRecoverable)
	default:
		return resp.StatusCode, errors.WithCategory(
			fmt.Errorf("client error (HTTP %d): %s", resp.StatusCode, msg), errors.CategoryUser)
	}
}
