// Package transport is the thin HTTP client layer every vendor adapter
// calls through. It owns base-header injection, status-code classification,
// retries with backoff, and rate limiting, so the adapters above it deal
// only in decoded JSON and typed errors.
package transport

import (
	"context"
)

// Transport executes vendor API requests.
type Transport interface {
	// Execute sends a request and returns a response. Failures are
	// reported as *Error so callers can branch on the error taxonomy.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier (e.g. "http", "oauth2").
	Name() string

	// SetRateLimiter configures rate limiting. The limiter is consulted
	// before every request attempt, including retries.
	SetRateLimiter(limiter RateLimiter)
}

// Request is a transport-agnostic vendor API request.
type Request struct {
	// Method is the HTTP method. Required.
	Method string

	// URL is the full request URL. Required.
	URL string

	// Headers are per-request headers. Optional.
	Headers map[string]string

	// Body is the request body. Optional.
	Body []byte
}

// Response is a transport-agnostic vendor API response.
type Response struct {
	StatusCode int
	Headers    map[string][]string
	Body       []byte

	// Metadata carries transport-level details (request IDs, retry counts).
	Metadata map[string]any
}

// Metadata keys set by transports.
const (
	// MetadataRequestID is the vendor-assigned request ID, when present.
	MetadataRequestID = "request_id"

	// MetadataRetryCount is the number of retries performed.
	MetadataRetryCount = "retry_count"
)

// RateLimiter blocks until a request may proceed under the configured
// limit. golang.org/x/time/rate.Limiter satisfies this interface directly.
type RateLimiter interface {
	Wait(ctx context.Context) error
}
