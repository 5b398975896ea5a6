// Package confluence exposes Confluence Cloud content as MCP tools: CQL
// search plus page, space, and attachment reads via the v2 REST API.
package confluence

import (
	"net/url"

	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/provider"
)

const gatewayBaseURL = "https://api.atlassian.com"

// Connector is the Confluence adapter.
type Connector struct {
	*provider.Base
}

// New builds the Confluence adapter. config.Site selects an Atlassian domain
// ("acme.atlassian.net"); config.BaseURL overrides the full API root. When a
// request carries a cloud ID the tenant-addressed gateway URL wins over both.
func New(config *provider.Config) (provider.Provider, error) {
	defaultURL := gatewayBaseURL
	if config != nil && config.Site != "" {
		defaultURL = "https://" + config.Site + "/wiki"
	}
	return &Connector{Base: provider.NewBase("confluence", defaultURL, config)}, nil
}

// root returns the API root for this request. Credentials carrying a cloud
// ID are routed through the Atlassian gateway so one server can serve any
// tenant; otherwise the configured site URL applies.
func (c *Connector) root(creds authctx.Credentials) string {
	if creds.CloudID != "" {
		return gatewayBaseURL + "/ex/confluence/" + url.PathEscape(creds.CloudID) + "/wiki"
	}
	return c.BaseURL()
}

// Tools returns the Confluence tool set.
func (c *Connector) Tools() []server.ServerTool {
	return []server.ServerTool{
		c.toolSearch(),
		c.toolGetPage(),
		c.toolListSpaces(),
		c.toolListAttachments(),
	}
}

// EnvVars returns the env vars consulted for credentials on stdio transport.
func (c *Connector) EnvVars() []string {
	return c.CredentialEnvVars("CONFLUENCE_TOKEN", "ATLASSIAN_TOKEN")
}
