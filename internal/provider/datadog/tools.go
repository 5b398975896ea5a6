package datadog

import (
	"context"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/shape"
)

func (c *Connector) toolSearchLogs() server.ServerTool {
	tool := mcp.NewTool("datadog_search_logs",
		mcp.WithDescription(`Search Datadog logs with the standard log search syntax.

Time bounds accept ISO-8601 timestamps or relative expressions like "now-15m".
Returns an opaque paginationToken when more pages exist; pass it back as
"cursor" to continue.`),
		mcp.WithString("query",
			mcp.Description("Log search query, e.g. \"service:web status:error\"."),
			mcp.Required(),
		),
		mcp.WithString("from",
			mcp.Description("Start of the time window. Default: now-15m."),
		),
		mcp.WithString("to",
			mcp.Description("End of the time window. Default: now."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of logs per page."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleSearchLogs}
}

func (c *Connector) handleSearchLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	query, err := req.RequireString("query")
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"filter": map[string]any{
			"query": query,
			"from":  req.GetString("from", "now-15m"),
			"to":    req.GetString("to", "now"),
		},
	}
	page := map[string]any{}
	if limit := req.GetInt("limit", 0); limit > 0 {
		page["limit"] = limit
	}
	if cursor := req.GetString("cursor", ""); cursor != "" {
		page["cursor"] = cursor
	}
	if len(page) > 0 {
		body["page"] = page
	}

	raw, err := c.DoJSON(ctx, http.MethodPost, c.BaseURL()+"/api/v2/logs/events/search",
		c.headers(creds), body)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "data")
	if err != nil {
		return nil, err
	}

	// The next-page cursor is handed out directly under meta.page.after.
	token := normalize.GetString(raw, "meta.page.after")
	return provider.JSONResult(shape.List("logs",
		normalize.ApplyList(items, logRules), token))
}

func (c *Connector) toolSearchEvents() server.ServerTool {
	tool := mcp.NewTool("datadog_search_events",
		mcp.WithDescription("Search Datadog events within a time window."),
		mcp.WithString("query",
			mcp.Description("Event search query."),
			mcp.Required(),
		),
		mcp.WithString("from",
			mcp.Description("Start of the time window. Default: now-24h."),
		),
		mcp.WithString("to",
			mcp.Description("End of the time window. Default: now."),
		),
		mcp.WithString("cursor",
			mcp.Description("Opaque pagination token from a previous call."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleSearchEvents}
}

func (c *Connector) handleSearchEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	query, err := req.RequireString("query")
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"filter": map[string]any{
			"query": query,
			"from":  req.GetString("from", "now-24h"),
			"to":    req.GetString("to", "now"),
		},
	}
	if cursor := req.GetString("cursor", ""); cursor != "" {
		body["page"] = map[string]any{"cursor": cursor}
	}

	raw, err := c.DoJSON(ctx, http.MethodPost, c.BaseURL()+"/api/v2/events/search",
		c.headers(creds), body)
	if err != nil {
		return nil, err
	}

	items, err := shape.Items(raw, "data")
	if err != nil {
		return nil, err
	}

	token := normalize.GetString(raw, "meta.page.after")
	return provider.JSONResult(shape.List("events",
		normalize.ApplyList(items, eventRules), token))
}

func (c *Connector) toolSubmitMetric() server.ServerTool {
	tool := mcp.NewTool("datadog_submit_metric",
		mcp.WithDescription("Submit a single metric point to Datadog."),
		mcp.WithString("metric",
			mcp.Description("Metric name, e.g. \"deploy.duration\"."),
			mcp.Required(),
		),
		mcp.WithNumber("value",
			mcp.Description("Point value."),
			mcp.Required(),
		),
		mcp.WithString("type",
			mcp.Description("Metric type: gauge, count, or rate. Default: gauge."),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags, e.g. \"env:prod,team:core\"."),
		),
	)
	return server.ServerTool{Tool: tool, Handler: c.handleSubmitMetric}
}

// metricTypes maps the metric type names of the intake API to its enum.
var metricTypes = map[string]int{"gauge": 3, "count": 1, "rate": 2}

func (c *Connector) handleSubmitMetric(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, err := authctx.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	metric, err := req.RequireString("metric")
	if err != nil {
		return nil, err
	}
	value, err := req.RequireFloat("value")
	if err != nil {
		return nil, err
	}

	series := map[string]any{
		"metric": metric,
		"type":   metricTypes[req.GetString("type", "gauge")],
		"points": []map[string]any{
			{"timestamp": time.Now().Unix(), "value": value},
		},
	}
	if tags := req.GetString("tags", ""); tags != "" {
		series["tags"] = splitTags(tags)
	}

	if _, err := c.DoJSON(ctx, http.MethodPost, c.BaseURL()+"/api/v2/series",
		c.headers(creds), map[string]any{"series": []map[string]any{series}}); err != nil {
		return nil, err
	}

	return provider.JSONResult(shape.Single("submitted", map[string]any{
		"metric": metric,
		"value":  value,
	}))
}
