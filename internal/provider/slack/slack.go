// Package slack exposes the Slack Web API as MCP tools: posting messages,
// reading conversation history, and listing channels.
package slack

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
)

const defaultBaseURL = "https://slack.com/api"

// Connector is the Slack adapter.
type Connector struct {
	*provider.Base
}

// New builds the Slack adapter.
func New(config *provider.Config) (provider.Provider, error) {
	return &Connector{Base: provider.NewBase("slack", defaultBaseURL, config)}, nil
}

// Tools returns the Slack tool set.
func (c *Connector) Tools() []server.ServerTool {
	return []server.ServerTool{
		c.toolPostMessage(),
		c.toolGetHistory(),
		c.toolListChannels(),
	}
}

// EnvVars returns the env vars consulted for credentials on stdio transport.
func (c *Connector) EnvVars() []string {
	return c.CredentialEnvVars("SLACK_BOT_TOKEN", "SLACK_TOKEN")
}

// checkOK validates Slack's application-level envelope. Slack returns HTTP
// 200 even for failures and signals them via ok=false plus an error code.
func checkOK(raw any) error {
	if ok, _ := normalize.Get(raw, "ok").(bool); ok {
		return nil
	}
	code := normalize.GetString(raw, "error")
	if code == "" {
		code = "unknown_error"
	}
	return fmt.Errorf("slack api error: %s", code)
}

func (c *Connector) headers(creds authctx.Credentials) map[string]string {
	h := provider.BearerHeaders(creds)
	h["Content-Type"] = "application/json; charset=utf-8"
	return h
}

var messageRules = normalize.RuleSet{
	{Name: "ts", Rule: normalize.Path("ts")},
	{Name: "user", Rule: normalize.Path("user")},
	{Name: "text", Rule: normalize.Path("text")},
	{Name: "threadTs", Rule: normalize.Path("thread_ts")},
	{Name: "replyCount", Rule: normalize.Path("reply_count")},
	{Name: "subtype", Rule: normalize.Path("subtype")},
}

var channelRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "name", Rule: normalize.Path("name")},
	{Name: "isPrivate", Rule: normalize.Path("is_private")},
	{Name: "isArchived", Rule: normalize.Path("is_archived")},
	{Name: "memberCount", Rule: normalize.Path("num_members")},
	{Name: "topic", Rule: normalize.Path("topic.value")},
	{Name: "purpose", Rule: normalize.Path("purpose.value")},
}
