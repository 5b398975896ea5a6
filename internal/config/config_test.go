package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridgeway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: text
providers:
  confluence:
    site: acme.atlassian.net
    env_vars: [MY_CONFLUENCE_TOKEN]
  datadog:
    site: datadoghq.eu
  slack:
    auth:
      type: oauth2
      token_url: https://auth.example.com/token
      client_id: app-1
      client_secret_env: SLACK_CLIENT_SECRET
      scopes: [chat:write]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "acme.atlassian.net", cfg.Provider("confluence").Site)
	assert.Equal(t, []string{"MY_CONFLUENCE_TOKEN"}, cfg.Provider("confluence").EnvVars)
	assert.Equal(t, "datadoghq.eu", cfg.Provider("datadog").Site)

	auth := cfg.Provider("slack").Auth
	assert.Equal(t, "oauth2", auth.Type)
	assert.Equal(t, "https://auth.example.com/token", auth.TokenURL)
	assert.Equal(t, "app-1", auth.ClientID)
	assert.Equal(t, "SLACK_CLIENT_SECRET", auth.ClientSecretEnv)
	assert.Equal(t, []string{"chat:write"}, auth.Scopes)

	// Absent provider yields the zero value.
	assert.Empty(t, cfg.Provider("mem0").BaseURL)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadNoFileUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers: [not a map"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
