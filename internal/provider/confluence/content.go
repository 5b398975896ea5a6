package confluence

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

func (c *Connector) toolGetPage() server.ServerTool {
	tool := mcp.NewTool("confluence_get_page",
		mcp.WithDescription("Fetch a single Confluence page by ID, including its storage-format body."),
		mcp.WithString("id",
			mcp.Description("Page ID."),
			mcp.Required(),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleGetPage}
}

func (c *Connector) handleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := req.RequireString("id")
	if err != nil {
		return nil, err
	}

	path, err := provider.ExpandPath("/api/v2/pages/{id}", map[string]string{"id": id})
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	values.Set("body-format", "storage")

	raw, err := c.DoJSON(ctx, http.MethodGet,
		c.root(creds)+path+c.Query(values),
		provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.Single("page", normalize.Apply(raw, pageRules)))
}

func (c *Connector) toolListSpaces() server.ServerTool {
	tool := mcp.NewTool("confluence_list_spaces",
		mcp.WithDescription("List Confluence spaces. Returns an opaque paginationToken when more pages exist; pass it back as \"cursor\"."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of spaces per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleListSpaces}
}

func (c *Connector) handleListSpaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
		c.root(creds)+"/api/v2/spaces"+c.Query(values),
		provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "results")
	if err != nil {
		return nil, err
	}

	base := normalize.GetString(raw, "_links.base")
	spaces := make([]map[string]any, 0, len(items))
	for _, item := range items {
		obj := normalize.Apply(item, spaceRules)
		if u := shape.ResolveURL(base, normalize.GetString(item, "_links.webui")); u != "" {
			obj["url"] = u
		}
		spaces = append(spaces, obj)
	}

	token := shape.PageToken(normalize.GetString(raw, "_links.next"), "cursor")
	return provider.JSONResult(shape.List("spaces", spaces, token))
}

func (c *Connector) toolListAttachments() server.ServerTool {
	tool := mcp.NewTool("confluence_list_attachments",
		mcp.WithDescription("List the attachments of a Confluence page."),
		mcp.WithString("id",
			mcp.Description("Page ID."),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of attachments per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleListAttachments}
}

func (c *Connector) handleListAttachments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := req.RequireString("id")
	if err != nil {
		return nil, err
	}

	path, err := provider.ExpandPath("/api/v2/pages/{id}/attachments", map[string]string{"id": id})
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	if limit := req.GetInt("limit", 0); limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	values.Set("cursor", req.GetString("cursor", ""))

	raw, err := c.DoJSON(ctx, http.MethodGet,
		c.root(creds)+path+c.Query(values),
		provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "results")
	if err != nil {
		return nil, err
	}

	token := shape.PageToken(normalize.GetString(raw, "_links.next"), "cursor")
	return provider.JSONResult(shape.List("attachments", normalize.ApplyList(items, attachmentRules), token))
}
