package mem0

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
)

func toolReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
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

func TestAddMemoryUsesPinnedUser(t *testing.T) {
	var gotBody map[string]any
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/memories/", r.URL.Path)
		require.Equal(t, "Token key-1", r.Header.Get("Authorization"))
		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &gotBody))
		_, _ = w.Write([]byte(`{"results": [{"id": "m1", "memory": "likes go", "user_id": "alice"}]}`))
	})

	ctx := authctx.WithCredentials(context.Background(),
		authctx.Credentials{APIKey: "key-1", UserID: "alice"})

	result, err := c.handleAdd(ctx, toolReq(map[string]any{"text": "I like Go"}))
	require.NoError(t, err)

	// user_id comes from the credential record when the argument is absent.
	assert.Equal(t, "alice", gotBody["user_id"])

	memories := decode(t, result)["memories"].([]any)
	require.Len(t, memories, 1)
	m := memories[0].(map[string]any)
	assert.Equal(t, "likes go", m["text"])
	assert.Equal(t, "alice", m["userId"])
}

func TestSearchExplicitUserWins(t *testing.T) {
	var gotBody map[string]any
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/memories/search/", r.URL.Path)
		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &gotBody))
		_, _ = w.Write([]byte(`{"results": [{"id": "m1", "memory": "likes go", "score": 0.91}]}`))
	})

	ctx := authctx.WithCredentials(context.Background(),
		authctx.Credentials{APIKey: "key-1", UserID: "alice"})

	result, err := c.handleSearch(ctx, toolReq(map[string]any{
		"query": "language", "user_id": "bob",
	}))
	require.NoError(t, err)
	assert.Equal(t, "bob", gotBody["user_id"])

	memories := decode(t, result)["memories"].([]any)
	assert.Equal(t, 0.91, memories[0].(map[string]any)["score"])
}

func TestListEmptyIsValid(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "alice", r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	ctx := authctx.WithCredentials(context.Background(),
		authctx.Credentials{APIKey: "key-1", UserID: "alice"})

	result, err := c.handleList(ctx, toolReq(nil))
	require.NoError(t, err)
	memories := decode(t, result)["memories"].([]any)
	assert.Empty(t, memories)
}

func TestDelete(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/v1/memories/m1/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := authctx.WithCredentials(context.Background(), authctx.Credentials{APIKey: "key-1"})

	result, err := c.handleDelete(ctx, toolReq(map[string]any{"memory_id": "m1"}))
	require.NoError(t, err)
	deleted := decode(t, result)["deleted"].(map[string]any)
	assert.Equal(t, "m1", deleted["id"])
}
