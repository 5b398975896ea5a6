package transport

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth2Config configures the client-credentials OAuth2 transport, used by
// vendors whose machine-to-machine auth is an OAuth2 app rather than a
// static token.
type OAuth2Config struct {
	// TokenURL is the OAuth2 token endpoint. Required.
	TokenURL string

	// ClientID and ClientSecret identify the OAuth2 app. Required.
	ClientID     string
	ClientSecret string

	// Scopes requested for the access token. Optional.
	Scopes []string

	// HTTP configures the underlying HTTP transport.
	HTTP *HTTPConfig
}

// OAuth2Transport wraps the HTTP transport, fetching and refreshing an
// access token via the client-credentials flow and injecting it as a bearer
// header on every request. Token caching and refresh are delegated to the
// oauth2 token source.
type OAuth2Transport struct {
	inner  *HTTPTransport
	source oauth2.TokenSource
}

// NewOAuth2 creates an OAuth2 client-credentials transport.
func NewOAuth2(config *OAuth2Config) (*OAuth2Transport, error) {
	if config.TokenURL == "" {
		return nil, fmt.Errorf("token_url is required for oauth2 transport")
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("client_id and client_secret are required for oauth2 transport")
	}
	cc := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		Scopes:       config.Scopes,
	}
	return &OAuth2Transport{
		inner:  NewHTTP(config.HTTP),
		source: cc.TokenSource(context.Background()),
	}, nil
}

// Name returns "oauth2".
func (t *OAuth2Transport) Name() string { return "oauth2" }

// SetRateLimiter configures rate limiting on the underlying transport.
func (t *OAuth2Transport) SetRateLimiter(limiter RateLimiter) {
	t.inner.SetRateLimiter(limiter)
}

// Execute fetches a valid access token and forwards the request with a
// bearer Authorization header. An explicit Authorization header on the
// request wins, so per-request credentials can still override the app
// token.
func (t *OAuth2Transport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Headers == nil || req.Headers["Authorization"] == "" {
		token, err := t.source.Token()
		if err != nil {
			return nil, &Error{
				Type:    ErrorTypeAuth,
				Message: "cannot obtain oauth2 access token",
				Cause:   err,
			}
		}
		headers := make(map[string]string, len(req.Headers)+1)
		for k, v := range req.Headers {
			headers[k] = v
		}
		headers["Authorization"] = "Bearer " + token.AccessToken
		req = &Request{Method: req.Method, URL: req.URL, Headers: headers, Body: req.Body}
	}
	return t.inner.Execute(ctx, req)
}
