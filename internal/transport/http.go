package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPConfig configures the plain HTTP transport.
type HTTPConfig struct {
	// Timeout bounds each request attempt. Default 30s.
	Timeout time.Duration

	// Headers are applied to every request (User-Agent, Accept, etc.).
	// Per-request headers override them.
	Headers map[string]string

	// Retry overrides the default retry policy when set.
	Retry *RetryConfig

	// MaxResponseSize caps the response body read. Default 10MiB.
	MaxResponseSize int64
}

// HTTPTransport implements Transport over net/http.
type HTTPTransport struct {
	config      *HTTPConfig
	client      *http.Client
	rateLimiter RateLimiter
}

// NewHTTP creates an HTTP transport with pooled connections and sane
// timeouts.
func NewHTTP(config *HTTPConfig) *HTTPTransport {
	if config == nil {
		config = &HTTPConfig{}
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxResponseSize == 0 {
		config.MaxResponseSize = 10 * 1024 * 1024
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: config.Timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return &HTTPTransport{config: config, client: client}
}

// Name returns "http".
func (t *HTTPTransport) Name() string { return "http" }

// SetRateLimiter configures rate limiting for this transport.
func (t *HTTPTransport) SetRateLimiter(limiter RateLimiter) {
	t.rateLimiter = limiter
}

// Execute sends the request with retry and rate limiting applied.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, &Error{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("invalid request: %v", err),
			Cause:   err,
		}
	}
	return withRetry(ctx, t.config.Retry, func(ctx context.Context) (*Response, error) {
		return t.executeOnce(ctx, req)
	})
}

func (t *HTTPTransport) executeOnce(ctx context.Context, req *Request) (*Response, error) {
	if t.rateLimiter != nil {
		if err := t.rateLimiter.Wait(ctx); err != nil {
			return nil, &Error{
				Type:    ErrorTypeCancelled,
				Message: "rate limit wait cancelled",
				Cause:   err,
			}
		}
	}

	httpReq, err := t.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("cannot build request: %v", err),
			Cause:   err,
		}
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyClientError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, t.config.MaxResponseSize+1))
	if err != nil {
		return nil, &Error{
			Type:      ErrorTypeConnection,
			Message:   fmt.Sprintf("cannot read response body: %v", err),
			Retryable: true,
			Cause:     err,
		}
	}
	if int64(len(body)) > t.config.MaxResponseSize {
		return nil, &Error{
			Type:    ErrorTypeClient,
			Message: fmt.Sprintf("response exceeds %d bytes", t.config.MaxResponseSize),
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		Metadata:   make(map[string]any),
	}
	if requestID := httpResp.Header.Get("X-Request-ID"); requestID != "" {
		resp.Metadata[MetadataRequestID] = requestID
	}

	if httpResp.StatusCode >= 400 {
		if retryAfter := httpResp.Header.Get("Retry-After"); retryAfter != "" {
			resp.Metadata["retry_after"] = retryAfter
		}
		return nil, statusError(httpResp.StatusCode, body, resp.Metadata)
	}
	return resp, nil
}

func (t *HTTPTransport) buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range t.config.Headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

func validateRequest(req *Request) error {
	switch req.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodPatch, http.MethodHead, http.MethodOptions:
	case "":
		return fmt.Errorf("method is required")
	default:
		return fmt.Errorf("invalid HTTP method %q", req.Method)
	}
	if req.URL == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

// classifyClientError maps net/http client failures onto the error taxonomy.
func classifyClientError(err error) *Error {
	msg := err.Error()
	if strings.Contains(msg, "context canceled") || strings.Contains(msg, "context deadline exceeded") {
		return &Error{Type: ErrorTypeCancelled, Message: "request cancelled", Cause: err}
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return &Error{Type: ErrorTypeTimeout, Message: "request timeout", Retryable: true, Cause: err}
	}
	return &Error{Type: ErrorTypeConnection, Message: "connection error", Retryable: true, Cause: err}
}

// statusError builds the taxonomy error for a non-2xx vendor response.
// Small error bodies are included in the message; large ones are elided to
// keep tool results readable.
func statusError(statusCode int, body []byte, metadata map[string]any) *Error {
	errType, retryable := classifyStatus(statusCode)

	message := fmt.Sprintf("HTTP %d", statusCode)
	if len(body) > 0 && len(body) < 500 {
		message = fmt.Sprintf("HTTP %d: %s", statusCode, strings.TrimSpace(string(body)))
	}

	return &Error{
		Type:       errType,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  retryable,
		Metadata:   metadata,
	}
}
