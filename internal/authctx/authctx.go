// Package authctx carries per-request vendor credentials.
//
// Credentials are scoped to a single inbound tool call by storing them in
// that call's context.Context. Concurrent requests each carry their own
// context, so one request's credential can never leak into another, and no
// explicit set/reset pairing is needed: the credential disappears with the
// context.
//
// Extraction order is header first, then process environment, then the OS
// keyring. The header must be able to override the environment so a
// multi-tenant deployment can serve per-request credentials while a local
// single-tenant deployment runs off env vars alone.
package authctx

import (
	"context"
	"errors"
)

// ErrMissingCredentials is returned when no usable credential is available
// for the current request. The dispatcher maps it to an "unauthorized" tool
// result.
var ErrMissingCredentials = errors.New("no credentials provided for this request")

// Credentials is the per-request credential record. Token and APIKey are
// alternative spellings of the same secret; vendors pick whichever their
// auth scheme needs. An all-empty record counts as "no credential".
type Credentials struct {
	// Token is a bearer/OAuth access token.
	Token string
	// APIKey is a vendor API key sent in a custom header.
	APIKey string
	// UserID optionally pins requests to a vendor-side user.
	UserID string
	// CloudID optionally selects a tenant (e.g. an Atlassian cloud site).
	CloudID string
}

// Secret returns the usable secret value, preferring Token over APIKey.
func (c Credentials) Secret() string {
	if c.Token != "" {
		return c.Token
	}
	return c.APIKey
}

// IsZero reports whether the record carries no secret at all. An explicitly
// set empty string is treated the same as unset.
func (c Credentials) IsZero() bool {
	return c.Token == "" && c.APIKey == ""
}

type ctxKey struct{}

// WithCredentials returns a context carrying creds for the duration of one
// request.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, ctxKey{}, creds)
}

// FromContext returns the credentials installed on ctx, or
// ErrMissingCredentials when none were installed or the record is empty.
func FromContext(ctx context.Context) (Credentials, error) {
	creds, ok := ctx.Value(ctxKey{}).(Credentials)
	if !ok || creds.IsZero() {
		return Credentials{}, ErrMissingCredentials
	}
	return creds, nil
}
