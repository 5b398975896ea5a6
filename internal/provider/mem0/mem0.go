// Package mem0 exposes the Mem0 memory service as MCP tools: adding,
// searching, listing, and deleting memories.
package mem0

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
)

const defaultBaseURL = "https://api.mem0.ai"

// Connector is the Mem0 adapter.
type Connector struct {
	*provider.Base
}

// New builds the Mem0 adapter.
func New(config *provider.Config) (provider.Provider, error) {
	return &Connector{Base: provider.NewBase("mem0", defaultBaseURL, config)}, nil
}

// Tools returns the Mem0 tool set.
func (c *Connector) Tools() []server.ServerTool {
	return []server.ServerTool{
		c.toolAdd(),
		c.toolSearch(),
		c.toolList(),
		c.toolDelete(),
	}
}

// EnvVars returns the env vars consulted for credentials on stdio transport.
func (c *Connector) EnvVars() []string {
	return c.CredentialEnvVars("MEM0_API_KEY")
}

// headers builds the Token-scheme auth header Mem0 expects.
func (c *Connector) headers(creds authctx.Credentials) map[string]string {
	return map[string]string{"Authorization": "Token " + creds.Secret()}
}

// userID resolves the memory owner: an explicit tool argument wins over the
// user pinned in the request credentials.
func userID(explicit string, creds authctx.Credentials) string {
	if explicit != "" {
		return explicit
	}
	return creds.UserID
}

var memoryRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "text", Rule: normalize.Path("memory")},
	{Name: "userId", Rule: normalize.Path("user_id")},
	{Name: "categories", Rule: normalize.Path("categories")},
	{Name: "score", Rule: normalize.Path("score")},
	{Name: "createdAt", Rule: normalize.Path("created_at")},
	{Name: "updatedAt", Rule: normalize.Path("updated_at")},
}
