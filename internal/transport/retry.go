package transport

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig controls retry behavior for transient vendor failures.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential multiplier between attempts.
	BackoffFactor float64
}

// DefaultRetryConfig returns the retry policy shared by all adapters:
// three attempts, 1s initial backoff doubling up to 30s.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
	}
}

// doFunc executes a single request attempt.
type doFunc func(ctx context.Context) (*Response, error)

// withRetry runs fn with exponential backoff and jitter. Only *Error values
// marked retryable are retried; Retry-After hints from 429/503 responses
// are honored up to MaxBackoff; context cancellation aborts immediately.
func withRetry(ctx context.Context, config *RetryConfig, fn doFunc) (*Response, error) {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		resp, err := fn(ctx)
		if err == nil {
			if resp.Metadata == nil {
				resp.Metadata = make(map[string]any)
			}
			resp.Metadata[MetadataRetryCount] = attempt - 1
			return resp, nil
		}
		lastErr = err

		retry, retryAfter := shouldRetry(err)
		if attempt >= config.MaxAttempts || !retry {
			return nil, lastErr
		}

		select {
		case <-time.After(backoff(config, attempt, retryAfter)):
		case <-ctx.Done():
			return nil, &Error{
				Type:    ErrorTypeCancelled,
				Message: "request cancelled during retry backoff",
				Cause:   ctx.Err(),
			}
		}
	}
	return nil, lastErr
}

// shouldRetry reports whether err warrants another attempt and any
// vendor-provided Retry-After delay.
func shouldRetry(err error) (bool, time.Duration) {
	terr, ok := err.(*Error)
	if !ok || !terr.Retryable {
		return false, 0
	}
	if terr.StatusCode == http.StatusTooManyRequests || terr.StatusCode == http.StatusServiceUnavailable {
		return true, retryAfterHint(terr)
	}
	return true, 0
}

// backoff computes the delay before the next attempt:
// min(initial * factor^(attempt-1), max), raised to any Retry-After hint
// (still capped at max), plus up to 100ms of jitter.
func backoff(config *RetryConfig, attempt int, retryAfter time.Duration) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}
	delay := time.Duration(base)

	if retryAfter > delay {
		delay = retryAfter
	}
	if delay > config.MaxBackoff {
		delay = config.MaxBackoff
	}

	jitter := time.Duration(rand.Int63n(101)) * time.Millisecond
	return delay + jitter
}

// retryAfterHint parses the Retry-After value stashed in error metadata.
// Supports the numeric-seconds and HTTP-date forms; anything else is 0.
func retryAfterHint(err *Error) time.Duration {
	raw, _ := err.Metadata["retry_after"].(string)
	if raw == "" {
		return 0
	}
	if secs, perr := strconv.Atoi(raw); perr == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, perr := http.ParseTime(raw); perr == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
