package mem0

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/shape"
)

func (c *Connector) toolAdd() server.ServerTool {
	tool := mcp.NewTool("mem0_add_memory",
		mcp.WithDescription("Store a new memory for a user. Mem0 extracts and deduplicates facts from the text."),
		mcp.WithString("text",
			mcp.Description("The content to remember."),
			mcp.Required(),
		),
		mcp.WithString("user_id",
			mcp.Description("Memory owner. Defaults to the user pinned in the request credentials."),
		),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleAdd}
}

func (c *Connector) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	text, err := req.RequireString("text")
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"messages": []map[string]any{{"role": "user", "content": text}},
	}
	if uid := userID(req.GetString("user_id", ""), creds); uid != "" {
		body["user_id"] = uid
	}

	raw, err := c.DoJSON(ctx, http.MethodPost, c.BaseURL()+"/v1/memories/",
		c.headers(creds), body)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "results")
	if err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.List("memories",
		normalize.ApplyList(items, memoryRules), ""))
}

func (c *Connector) toolSearch() server.ServerTool {
	tool := mcp.NewTool("mem0_search_memories",
		mcp.WithDescription("Semantic search over a user's memories. Results are ordered by relevance score."),
		mcp.WithString("query",
			mcp.Description("Search text."),
			mcp.Required(),
		),
		mcp.WithString("user_id",
			mcp.Description("Memory owner. Defaults to the user pinned in the request credentials."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleSearch}
}

func (c *Connector) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	query, err := req.RequireString("query")
	if err != nil {
		return nil, err
	}

	body := map[string]any{"query": query}
	if uid := userID(req.GetString("user_id", ""), creds); uid != "" {
		body["user_id"] = uid
	}

	raw, err := c.DoJSON(ctx, http.MethodPost, c.BaseURL()+"/v1/memories/search/",
		c.headers(creds), body)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "results")
	if err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.List("memories",
		normalize.ApplyList(items, memoryRules), ""))
}

func (c *Connector) toolList() server.ServerTool {
	tool := mcp.NewTool("mem0_list_memories",
		mcp.WithDescription("List all memories stored for a user."),
		mcp.WithString("user_id",
			mcp.Description("Memory owner. Defaults to the user pinned in the request credentials."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleList}
}

func (c *Connector) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("user_id", userID(req.GetString("user_id", ""), creds))

	raw, err := c.DoJSON(ctx, http.MethodGet,
		c.BaseURL()+"/v1/memories/"+c.Query(values),
		c.headers(creds), nil)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "results")
	if err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.List("memories",
		normalize.ApplyList(items, memoryRules), ""))
}

func (c *Connector) toolDelete() server.ServerTool {
	tool := mcp.NewTool("mem0_delete_memory",
		mcp.WithDescription("Delete a single memory by ID."),
		mcp.WithString("memory_id",
			mcp.Description("Memory ID."),
			mcp.Required(),
		),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleDelete}
}

func (c *Connector) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	memoryID, err := req.RequireString("memory_id")
	if err != nil {
		return nil, err
	}

	endpoint, err := c.BuildURL("/v1/memories/{id}/", map[string]string{"id": memoryID})
	if err != nil {
		return nil, err
	}

	if _, err := c.DoJSON(ctx, http.MethodDelete, endpoint, c.headers(creds), nil); err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.Single("deleted", map[string]any{"id": memoryID}))
}
