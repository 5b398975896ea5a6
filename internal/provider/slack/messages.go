package slack

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/shape"
)

func (c *Connector) toolPostMessage() server.ServerTool {
	tool := mcp.NewTool("slack_post_message",
		mcp.WithDescription("Post a message to a Slack channel. Set thread_ts to reply in a thread."),
		mcp.WithString("channel",
			mcp.Description("Channel ID or name."),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Message text. Supports Slack mrkdwn."),
			mcp.Required(),
		),
		mcp.WithString("thread_ts",
			mcp.Description("Timestamp of a parent message to reply to."),
		),
	)
	return server.ServerTool{Tool: tool, Handler: c.handlePostMessage}
}

func (c *Connector) handlePostMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	channel, err := req.RequireString("channel")
	if err != nil {
		return nil, err
	}
	text, err := req.RequireString("text")
	if err != nil {
		return nil, err
	}

	body := map[string]any{"channel": channel, "text": text}
	if threadTS := req.GetString("thread_ts", ""); threadTS != "" {
		body["thread_ts"] = threadTS
	}

	raw, err := c.DoJSON(ctx, http.MethodPost, c.BaseURL()+"/chat.postMessage",
		c.headers(creds), body)
	if err != nil {
		return nil, err
	}
	if err := checkOK(raw); err != nil {
		return nil, err
	}

	posted := map[string]any{
		"channel": normalize.Get(raw, "channel"),
		"ts":      normalize.Get(raw, "ts"),
	}
	return provider.JSONResult(shape.Single("message", normalize.StripNulls(posted)))
}

func (c *Connector) toolGetHistory() server.ServerTool {
	tool := mcp.NewTool("slack_get_history",
		mcp.WithDescription(`Fetch recent messages from a Slack channel, newest first.

Returns an opaque paginationToken when older messages remain; pass it back as
"cursor" to continue.`),
		mcp.WithString("channel",
			mcp.Description("Channel ID."),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleGetHistory}
}

func (c *Connector) handleGetHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	channel, err := req.RequireString("channel")
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("channel", channel)
	if limit := req.GetInt("limit", 0); limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	values.Set("cursor", req.GetString("cursor", ""))

	raw, err := c.DoJSON(ctx, http.MethodGet,
		c.BaseURL()+"/conversations.history"+c.Query(values),
		c.headers(creds), nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(raw); err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "messages")
	if err != nil {
		return nil, err
	}

	// Slack hands the cursor out directly instead of inside a next-page URL.
	token := normalize.GetString(raw, "response_metadata.next_cursor")
	return provider.JSONResult(shape.List("messages",
		normalize.ApplyList(items, messageRules), token))
}

func (c *Connector) toolListChannels() server.ServerTool {
	tool := mcp.NewTool("slack_list_channels",
		mcp.WithDescription("List channels visible to the bot token."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of channels per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleListChannels}
}

func (c *Connector) handleListChannels(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	if limit := req.GetInt("limit", 0); limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	values.Set("cursor", req.GetString("cursor", ""))

	raw, err := c.DoJSON(ctx, http.MethodGet,
		c.BaseURL()+"/conversations.list"+c.Query(values),
		c.headers(creds), nil)
	if err != nil {
		return nil, err
	}
	if err := checkOK(raw); err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "channels")
	if err != nil {
		return nil, err
	}

	token := normalize.GetString(raw, "response_metadata.next_cursor")
	return provider.JSONResult(shape.List("channels",
		normalize.ApplyList(items, channelRules), token))
}
