package onedrive

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

func (c *Connector) toolListChildren() server.ServerTool {
	tool := mcp.NewTool("onedrive_list_children",
		mcp.WithDescription(`List the children of a OneDrive folder.

Omit "item_id" to list the drive root. Returns an opaque paginationToken when
more pages exist; pass it back as "cursor" to continue.`),
		mcp.WithString("item_id",
			mcp.Description("Folder item ID. Defaults to the drive root."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of items per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleListChildren}
}

func (c *Connector) handleListChildren(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL() + "/me/drive/root/children"
	if itemID := req.GetString("item_id", ""); itemID != "" {
		path, err := provider.ExpandPath("/me/drive/items/{id}/children", map[string]string{"id": itemID})
		if err != nil {
			return nil, err
		}
		endpoint = c.BaseURL() + path
	}

	values := url.Values{}
	if limit := req.GetInt("limit", 0); limit > 0 {
		values.Set("$top", strconv.Itoa(limit))
	}
	values.Set(skipTokenParam, req.GetString("cursor", ""))

	raw, err := c.DoJSON(ctx, http.MethodGet, endpoint+c.Query(values),
		provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "value")
	if err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.List("items",
		normalize.ApplyList(items, driveItemRules), nextToken(raw)))
}

func (c *Connector) toolGetItem() server.ServerTool {
	tool := mcp.NewTool("onedrive_get_item",
		mcp.WithDescription("Fetch metadata for a single OneDrive item by ID."),
		mcp.WithString("item_id",
			mcp.Description("Drive item ID."),
			mcp.Required(),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleGetItem}
}

func (c *Connector) handleGetItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	itemID, err := req.RequireString("item_id")
	if err != nil {
		return nil, err
	}

	endpoint, err := c.BuildURL("/me/drive/items/{id}", map[string]string{"id": itemID})
	if err != nil {
		return nil, err
	}

	raw, err := c.DoJSON(ctx, http.MethodGet, endpoint, provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.Single("item", normalize.Apply(raw, driveItemRules)))
}

func (c *Connector) toolSearch() server.ServerTool {
	tool := mcp.NewTool("onedrive_search",
		mcp.WithDescription("Search the drive by file name and content."),
		mcp.WithString("query",
			mcp.Description("Search text."),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
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

	// Graph embeds the query in the path, quoted OData-style.
	endpoint := c.BaseURL() + "/me/drive/root/search(q='" + url.PathEscape(query) + "')"

	values := url.Values{}
	if limit := req.GetInt("limit", 0); limit > 0 {
		values.Set("$top", strconv.Itoa(limit))
	}
	values.Set(skipTokenParam, req.GetString("cursor", ""))

	raw, err := c.DoJSON(ctx, http.MethodGet, endpoint+c.Query(values),
		provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "value")
	if err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.List("items",
		normalize.ApplyList(items, driveItemRules), nextToken(raw)))
}

func (c *Connector) toolListShared() server.ServerTool {
	tool := mcp.NewTool("onedrive_list_shared",
		mcp.WithDescription("List items other people have shared with the signed-in user."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleListShared}
}

func (c *Connector) handleListShared(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.DoJSON(ctx, http.MethodGet, c.BaseURL()+"/me/drive/sharedWithMe",
		provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "value")
	if err != nil {
		return nil, err
	}

	// Shared entries wrap the real item under remoteItem; merge its fields
	// over the stub so the output matches regular drive items.
	shared := make([]map[string]any, 0, len(items))
	for _, item := range items {
		obj := normalize.Apply(item, driveItemRules)
		if remote := normalize.Get(item, "remoteItem"); remote != nil {
			for k, v := range normalize.Apply(remote, driveItemRules) {
				if k != "type" {
					obj[k] = v
				}
			}
		}
		shared = append(shared, obj)
	}

	return provider.JSONResult(shape.List("items", shared, nextToken(raw)))
}
