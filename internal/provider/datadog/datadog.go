// Package datadog exposes Datadog as MCP tools: log and event search plus
// metric submission, across all Datadog sites.
package datadog

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
)

const defaultSite = "datadoghq.com"

// validSites lists the Datadog sites an adapter may target. Requests to an
// unknown site would silently create data in the wrong region, so the site
// is validated at construction.
var validSites = map[string]bool{
	"datadoghq.com":     true,
	"us3.datadoghq.com": true,
	"us5.datadoghq.com": true,
	"datadoghq.eu":      true,
	"ap1.datadoghq.com": true,
}

// Connector is the Datadog adapter.
type Connector struct {
	*provider.Base
	site string
}

// New builds the Datadog adapter. config.Site selects the Datadog region;
// the API rate limit is enforced client-side with a token bucket of
// 10 req/s, burst 10.
func New(config *provider.Config) (provider.Provider, error) {
	site := defaultSite
	if config != nil && config.Site != "" {
		site = config.Site
	}
	if !validSites[site] {
		return nil, fmt.Errorf("invalid datadog site: %s", site)
	}

	c := &Connector{
		Base: provider.NewBase("datadog", "https://api."+site, config),
		site: site,
	}
	c.Transport().SetRateLimiter(rate.NewLimiter(rate.Limit(10), 10))
	return c, nil
}

// Tools returns the Datadog tool set.
func (c *Connector) Tools() []server.ServerTool {
	return []server.ServerTool{
		c.toolSearchLogs(),
		c.toolSearchEvents(),
		c.toolSubmitMetric(),
	}
}

// EnvVars returns the env vars consulted for credentials on stdio transport.
func (c *Connector) EnvVars() []string {
	return c.CredentialEnvVars("DD_API_KEY", "DATADOG_API_KEY")
}

// headers builds the Datadog key headers. Credentials resolved from the
// environment or the keyring carry a single secret in Token, so the API key
// falls back to Secret() when APIKey is unset. The application key is sent
// only when both fields are populated and distinct: Token is the app key
// only alongside an explicit API key.
func (c *Connector) headers(creds authctx.Credentials) map[string]string {
	apiKey := creds.APIKey
	if apiKey == "" {
		apiKey = creds.Secret()
	}
	h := map[string]string{"DD-API-KEY": apiKey}
	if creds.APIKey != "" && creds.Token != "" && creds.Token != creds.APIKey {
		h["DD-APPLICATION-KEY"] = creds.Token
	}
	return h
}

// splitTags turns "env:prod, team:core" into its non-empty parts.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

var logRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "message", Rule: normalize.Path("attributes.message")},
	{Name: "status", Rule: normalize.Path("attributes.status")},
	{Name: "service", Rule: normalize.Path("attributes.service")},
	{Name: "host", Rule: normalize.Path("attributes.host")},
	{Name: "timestamp", Rule: normalize.Path("attributes.timestamp")},
	{Name: "tags", Rule: normalize.Path("attributes.tags")},
}

var eventRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "title", Rule: normalize.First("attributes.attributes.title", "attributes.message")},
	{Name: "timestamp", Rule: normalize.Path("attributes.timestamp")},
	{Name: "tags", Rule: normalize.Path("attributes.tags")},
}
