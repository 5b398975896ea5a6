package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOAuth2Validation(t *testing.T) {
	_, err := NewOAuth2(&OAuth2Config{ClientID: "id", ClientSecret: "sec"})
	require.Error(t, err)

	_, err = NewOAuth2(&OAuth2Config{TokenURL: "https://example.com/token"})
	require.Error(t, err)
}

func TestOAuth2InjectsBearerToken(t *testing.T) {
	tokenCalls := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "at-1", "token_type": "bearer", "expires_in": 3600}`))
	}))
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer apiSrv.Close()

	tr, err := NewOAuth2(&OAuth2Config{
		TokenURL:     tokenSrv.URL,
		ClientID:     "id",
		ClientSecret: "sec",
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp, err := tr.Execute(context.Background(), &Request{Method: http.MethodGet, URL: apiSrv.URL})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	// The token is cached between requests.
	assert.Equal(t, 1, tokenCalls)
}

func TestOAuth2ExplicitAuthorizationWins(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer per-request", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer apiSrv.Close()

	tr, err := NewOAuth2(&OAuth2Config{
		TokenURL:     "https://auth.invalid/token", // must not be contacted
		ClientID:     "id",
		ClientSecret: "sec",
	})
	require.NoError(t, err)

	_, err = tr.Execute(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     apiSrv.URL,
		Headers: map[string]string{"Authorization": "Bearer per-request"},
	})
	require.NoError(t, err)
}
