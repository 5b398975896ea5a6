package confluence

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/cql"
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/shape"
)

func (c *Connector) toolSearch() server.ServerTool {
	tool := mcp.NewTool("confluence_search",
		mcp.WithDescription(`Search Confluence content by plain text terms.

Terms in "query" must all match; terms in "match_any" widen the search so any
one of them matching is enough. Matching covers content text, titles, and
space titles. Results include an opaque paginationToken when more pages are
available; pass it back as "cursor" to continue.`),
		mcp.WithString("query",
			mcp.Description("Space-separated terms that must all match."),
			mcp.Required(),
		),
		mcp.WithString("match_any",
			mcp.Description("Space-separated terms where at least one must match."),
		),
		mcp.WithBoolean("fuzzy",
			mcp.Description("Enable fuzzy matching. Applies to single-word terms only."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous search."),
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

	cqlQuery, err := cql.Build(
		strings.Fields(query),
		strings.Fields(req.GetString("match_any", "")),
		req.GetBool("fuzzy", false),
	)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("cql", cqlQuery)
	if limit := req.GetInt("limit", 0); limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	values.Set("cursor", req.GetString("cursor", ""))

	raw, err := c.DoJSON(ctx, http.MethodGet,
		c.root(creds)+"/rest/api/search"+c.Query(values),
		provider.BearerHeaders(creds), nil)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "results")
	if err != nil {
		return nil, err
	}

	// Search results carry relative web links; the response-level _links.base
	// turns them absolute.
	base := normalize.GetString(raw, "_links.base")
	results := make([]map[string]any, 0, len(items))
	for _, item := range items {
		obj := normalize.Apply(item, searchResultRules)
		if u := shape.ResolveURL(base, normalize.GetString(item, "url")); u != "" {
			obj["url"] = u
		}
		results = append(results, obj)
	}

	token := shape.PageToken(normalize.GetString(raw, "_links.next"), "cursor")
	return provider.JSONResult(shape.List("results", results, token))
}
