package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/transport"
)

// Base provides the request-building plumbing shared by all vendor
// adapters: URL templating, query encoding, JSON round-tripping, and the
// transport call itself. Adapters embed Base and add their tools on top.
type Base struct {
	name      string
	baseURL   string
	envVars   []string
	transport transport.Transport
	logger    *slog.Logger
}

// NewBase creates the shared adapter core. defaultBaseURL is the vendor's
// public API root; config.BaseURL overrides it.
func NewBase(name, defaultBaseURL string, config *Config) *Base {
	baseURL := defaultBaseURL
	if config != nil && config.BaseURL != "" {
		baseURL = config.BaseURL
	}
	var envVars []string
	if config != nil {
		envVars = config.EnvVars
	}
	return &Base{
		name:      name,
		baseURL:   strings.TrimRight(baseURL, "/"),
		envVars:   envVars,
		transport: config.transport(),
		logger:    config.logger().With(slog.String("provider", name)),
	}
}

// Name returns the adapter identifier.
func (b *Base) Name() string { return b.name }

// BaseURL returns the resolved API root.
func (b *Base) BaseURL() string { return b.baseURL }

// Logger returns the adapter-scoped logger.
func (b *Base) Logger() *slog.Logger { return b.logger }

// Transport returns the underlying transport.
func (b *Base) Transport() transport.Transport { return b.transport }

// CredentialEnvVars returns the configured credential env var override, or
// defaults when the configuration leaves it unset.
func (b *Base) CredentialEnvVars(defaults ...string) []string {
	if len(b.envVars) > 0 {
		return b.envVars
	}
	return defaults
}

// BuildURL expands a path template like "/pages/{id}" against params and
// joins it to the base URL. Param values are path-escaped. An unreplaced
// placeholder means a required parameter is missing.
func (b *Base) BuildURL(pathTemplate string, params map[string]string) (string, error) {
	path, err := ExpandPath(pathTemplate, params)
	if err != nil {
		return "", err
	}
	return b.baseURL + path, nil
}

// ExpandPath expands a `{param}` path template without joining it to a base
// URL. Adapters whose API root varies per request (tenant-addressed APIs)
// use this and prepend their own root.
func ExpandPath(pathTemplate string, params map[string]string) (string, error) {
	path := pathTemplate
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(value))
	}
	if start := strings.Index(path, "{"); start != -1 {
		if end := strings.Index(path[start:], "}"); end != -1 {
			return "", fmt.Errorf("missing required parameter: %s", path[start+1:start+end])
		}
	}
	return path, nil
}

// Query encodes non-empty values into a query string (with leading "?"),
// or "" when nothing is set.
func (b *Base) Query(values url.Values) string {
	filtered := url.Values{}
	for key, vals := range values {
		for _, v := range vals {
			if v != "" {
				filtered.Add(key, v)
			}
		}
	}
	if len(filtered) == 0 {
		return ""
	}
	return "?" + filtered.Encode()
}

// DoJSON executes a request and decodes the response body as JSON. A nil
// body is returned for empty responses (204 and friends). The request body,
// when non-nil, is JSON-encoded.
func (b *Base) DoJSON(ctx context.Context, method, rawURL string, headers map[string]string, body any) (any, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	resp, err := b.transport.Execute(ctx, &transport.Request{
		Method:  method,
		URL:     rawURL,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", b.name, err)
	}
	return decoded, nil
}

// BearerHeaders builds an Authorization header from the request's
// credentials.
func BearerHeaders(creds authctx.Credentials) map[string]string {
	return map[string]string{"Authorization": "Bearer " + creds.Secret()}
}
