package datadog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/shape"
)

func toolReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func authedCtx() context.Context {
	return authctx.WithCredentials(context.Background(),
		authctx.Credentials{APIKey: "api-key", Token: "app-key"})
}

func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := New(&provider.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return p.(*Connector)
}

func decode(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestNewRejectsUnknownSite(t *testing.T) {
	_, err := New(&provider.Config{Site: "datadoghq.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid datadog site")
}

func TestNewSiteSelectsBaseURL(t *testing.T) {
	p, err := New(&provider.Config{Site: "datadoghq.eu"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.datadoghq.eu", p.(*Connector).BaseURL())
}

func TestSearchLogs(t *testing.T) {
	var gotBody map[string]any
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/logs/events/search", r.URL.Path)
		require.Equal(t, "api-key", r.Header.Get("DD-API-KEY"))
		require.Equal(t, "app-key", r.Header.Get("DD-APPLICATION-KEY"))
		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &gotBody))
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "L1", "attributes": {
					"message": "boom", "status": "error",
					"service": "web", "timestamp": "2026-09-01T10:00:00Z"}}
			],
			"meta": {"page": {"after": "after-1"}}
		}`))
	})

	result, err := c.handleSearchLogs(authedCtx(), toolReq(map[string]any{
		"query": "service:web status:error",
	}))
	require.NoError(t, err)

	filter := gotBody["filter"].(map[string]any)
	assert.Equal(t, "now-15m", filter["from"])

	out := decode(t, result)
	assert.Equal(t, "after-1", out[shape.PaginationTokenKey])
	logs := out["logs"].([]any)
	require.Len(t, logs, 1)
	assert.Equal(t, "boom", logs[0].(map[string]any)["message"])
}

func TestSearchLogsEnvCredentials(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "env-api-key", r.Header.Get("DD-API-KEY"))
		// A single env secret is the API key, not an application key.
		require.Empty(t, r.Header.Get("DD-APPLICATION-KEY"))
		_, _ = w.Write([]byte(`{"data": [], "meta": {}}`))
	})

	t.Setenv("DD_API_KEY", "env-api-key")
	creds, ok := authctx.FromEnv(c.EnvVars()...)
	require.True(t, ok)
	ctx := authctx.WithCredentials(context.Background(), creds)

	_, err := c.handleSearchLogs(ctx, toolReq(map[string]any{"query": "x"}))
	require.NoError(t, err)
}

func TestSearchLogsCursorForwarded(t *testing.T) {
	var gotBody map[string]any
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &gotBody))
		_, _ = w.Write([]byte(`{"data": [], "meta": {}}`))
	})

	_, err := c.handleSearchLogs(authedCtx(), toolReq(map[string]any{
		"query": "x", "cursor": "after-1", "limit": 50,
	}))
	require.NoError(t, err)

	page := gotBody["page"].(map[string]any)
	assert.Equal(t, "after-1", page["cursor"])
	assert.Equal(t, float64(50), page["limit"])
}

func TestSearchEventsMalformed(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events": []}`))
	})
	_, err := c.handleSearchEvents(authedCtx(), toolReq(map[string]any{"query": "x"}))
	assert.ErrorIs(t, err, shape.ErrMalformedResponse)
}

func TestSubmitMetric(t *testing.T) {
	var gotBody map[string]any
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/series", r.URL.Path)
		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &gotBody))
		_, _ = w.Write([]byte(`{"errors": []}`))
	})

	result, err := c.handleSubmitMetric(authedCtx(), toolReq(map[string]any{
		"metric": "deploy.duration", "value": 12.5, "tags": "env:prod, team:core",
	}))
	require.NoError(t, err)

	series := gotBody["series"].([]any)[0].(map[string]any)
	assert.Equal(t, "deploy.duration", series["metric"])
	assert.Equal(t, float64(3), series["type"]) // gauge
	assert.Equal(t, []any{"env:prod", "team:core"}, series["tags"])

	submitted := decode(t, result)["submitted"].(map[string]any)
	assert.Equal(t, 12.5, submitted["value"])
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, splitTags("a:1, b:2"))
	assert.Nil(t, splitTags("  ,  "))
}
