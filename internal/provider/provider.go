// Package provider defines the contract every vendor adapter implements
// and the shared request-building helpers the adapters are built on.
package provider

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/transport"
)

// Provider is one vendor adapter: a named set of MCP tools backed by that
// vendor's API.
type Provider interface {
	// Name returns the adapter identifier (e.g. "confluence").
	Name() string

	// Tools returns the tool descriptors and handlers this adapter
	// exposes. The full tool set is fixed at construction.
	Tools() []server.ServerTool

	// EnvVars returns the environment variable names consulted for
	// credentials when no transport header is present, in priority order.
	EnvVars() []string
}

// Config holds runtime configuration shared by all adapters. Zero values
// select vendor defaults.
type Config struct {
	// BaseURL overrides the vendor's default API base URL.
	BaseURL string

	// Site selects a vendor region/tenant where applicable (e.g. the
	// Datadog site, an Atlassian cloud domain).
	Site string

	// EnvVars replaces the adapter's default credential env var list.
	EnvVars []string

	// Transport overrides the default HTTP transport.
	Transport transport.Transport

	// Logger receives adapter logs. Defaults to slog.Default().
	Logger *slog.Logger
}

func (c *Config) logger() *slog.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) transport() transport.Transport {
	if c != nil && c.Transport != nil {
		return c.Transport
	}
	return transport.NewHTTP(nil)
}

// Factory constructs a Provider from shared configuration.
type Factory func(config *Config) (Provider, error)
