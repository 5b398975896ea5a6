package transport

import "fmt"

// ErrorType classifies transport failures for retry and dispatch decisions.
type ErrorType string

const (
	// ErrorTypeConnection indicates network or DNS failure.
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates a request timeout or deadline.
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeAuth indicates an authentication failure (401, 403).
	ErrorTypeAuth ErrorType = "auth"

	// ErrorTypeNotFound indicates the vendor resource does not exist (404).
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeRateLimit indicates vendor-side rate limiting (429).
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeServer indicates a vendor server error (5xx).
	ErrorTypeServer ErrorType = "server"

	// ErrorTypeClient indicates a non-retryable client error (other 4xx).
	ErrorTypeClient ErrorType = "client"

	// ErrorTypeInvalidReq indicates the request failed local validation.
	ErrorTypeInvalidReq ErrorType = "invalid_request"

	// ErrorTypeCancelled indicates the context was cancelled.
	ErrorTypeCancelled ErrorType = "cancelled"
)

// Error is the structured failure every transport returns. Message is safe
// to surface to tool callers; Cause may contain sensitive detail and is for
// logs only.
type Error struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Retryable  bool
	Cause      error

	// Metadata carries vendor debugging detail (request IDs, Retry-After).
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsType reports whether the error is of the given type.
func (e *Error) IsType(t ErrorType) bool {
	return e.Type == t
}

// classifyStatus maps an HTTP status code to an error type and whether a
// retry may help. 401/403 are credential problems, 404 is not-found, 429 is
// rate limited, 5xx and 408 are transient.
func classifyStatus(statusCode int) (ErrorType, bool) {
	switch {
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuth, false
	case statusCode == 404:
		return ErrorTypeNotFound, false
	case statusCode == 429:
		return ErrorTypeRateLimit, true
	case statusCode == 408:
		return ErrorTypeTimeout, true
	case statusCode >= 500:
		return ErrorTypeServer, true
	default:
		return ErrorTypeClient, false
	}
}
