package confluence

import (
	"context"
	"encoding/json"
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
	return authctx.WithCredentials(context.Background(), authctx.Credentials{Token: "tok"})
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

func TestSearch(t *testing.T) {
	var gotCQL string
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/search", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		gotCQL = r.URL.Query().Get("cql")
		_, _ = w.Write([]byte(`{
			"results": [
				{"content": {"id": "1", "type": "page", "title": "Rollout plan"},
				 "excerpt": "the plan", "url": "/spaces/ENG/pages/1",
				 "resultGlobalContainer": {"title": "Engineering"}}
			],
			"_links": {
				"base": "https://acme.atlassian.net/wiki",
				"next": "/rest/api/search?cql=x&cursor=abc123"
			}
		}`))
	})

	result, err := c.handleSearch(authedCtx(), toolReq(map[string]any{"query": "rollout plan"}))
	require.NoError(t, err)
	assert.Equal(t, `(text ~ "rollout" OR title ~ "rollout" OR space.title ~ "rollout") AND (text ~ "plan" OR title ~ "plan" OR space.title ~ "plan")`, gotCQL)

	out := decode(t, result)
	assert.Equal(t, "abc123", out[shape.PaginationTokenKey])
	results := out["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "1", first["id"])
	assert.Equal(t, "Rollout plan", first["title"])
	assert.Equal(t, "https://acme.atlassian.net/wiki/spaces/ENG/pages/1", first["url"])
	assert.Equal(t, "Engineering", first["space"])
}

func TestSearchEmptyQuery(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.handleSearch(authedCtx(), toolReq(map[string]any{"query": "   "}))
	require.Error(t, err)
}

func TestSearchRequiresCredentials(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.handleSearch(context.Background(), toolReq(map[string]any{"query": "x"}))
	assert.ErrorIs(t, err, authctx.ErrMissingCredentials)
}

func TestGetPage(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/pages/42", r.URL.Path)
		require.Equal(t, "storage", r.URL.Query().Get("body-format"))
		_, _ = w.Write([]byte(`{
			"id": "42", "title": "Runbook", "status": "current",
			"version": {"number": 7},
			"body": {"storage": {"value": "<p>hello</p>"}},
			"parentId": null,
			"_links": {"base": "https://acme.atlassian.net/wiki", "webui": "/pages/42"}
		}`))
	})

	result, err := c.handleGetPage(authedCtx(), toolReq(map[string]any{"id": "42"}))
	require.NoError(t, err)

	page := decode(t, result)["page"].(map[string]any)
	assert.Equal(t, "Runbook", page["title"])
	assert.Equal(t, float64(7), page["version"])
	assert.Equal(t, "<p>hello</p>", page["body"])
	assert.Equal(t, "https://acme.atlassian.net/wiki/pages/42", page["url"])
	// Null vendor fields are omitted, not carried as nulls.
	_, present := page["parentId"]
	assert.False(t, present)
}

func TestListSpacesMalformed(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"values": []}`))
	})
	_, err := c.handleListSpaces(authedCtx(), toolReq(nil))
	assert.ErrorIs(t, err, shape.ErrMalformedResponse)
}

func TestListAttachments(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/pages/42/attachments", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"results": [
				{"id": "att1", "title": "diagram.png", "mediaType": "image/png",
				 "_links": {"download": "/download/attachments/42/diagram.png"}}
			],
			"_links": {}
		}`))
	})

	result, err := c.handleListAttachments(authedCtx(), toolReq(map[string]any{"id": "42"}))
	require.NoError(t, err)

	out := decode(t, result)
	_, hasToken := out[shape.PaginationTokenKey]
	assert.False(t, hasToken)
	atts := out["attachments"].([]any)
	require.Len(t, atts, 1)
	assert.Equal(t, "/download/attachments/42/diagram.png", atts[0].(map[string]any)["downloadLink"])
}

func TestRootWithCloudID(t *testing.T) {
	p, err := New(&provider.Config{Site: "acme.atlassian.net"})
	require.NoError(t, err)
	c := p.(*Connector)

	assert.Equal(t, "https://acme.atlassian.net/wiki", c.root(authctx.Credentials{Token: "t"}))
	assert.Equal(t,
		"https://api.atlassian.com/ex/confluence/cloud-1/wiki",
		c.root(authctx.Credentials{Token: "t", CloudID: "cloud-1"}))
}
