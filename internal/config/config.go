// Copyright 2026 Bridgeway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the bridgeway.yaml configuration file. Flags take
// precedence over the file, which takes precedence over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root of bridgeway.yaml.
type Config struct {
	// Log configures logging output.
	Log LogConfig `yaml:"log"`

	// Providers holds per-adapter overrides, keyed by adapter name.
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// LogConfig mirrors the fields of internal/log.Config that make sense in a
// file.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProviderConfig overrides one adapter's defaults.
type ProviderConfig struct {
	// BaseURL replaces the vendor's default API root.
	BaseURL string `yaml:"base_url"`

	// Site selects a vendor region or tenant where applicable.
	Site string `yaml:"site"`

	// EnvVars replaces the adapter's default credential env var list.
	EnvVars []string `yaml:"env_vars"`

	// Auth selects a non-default auth transport for this adapter.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig configures app-level authentication for one adapter. The only
// supported type is "oauth2", the client-credentials flow. The client secret
// stays out of the file: ClientSecretEnv names the env var that holds it.
type AuthConfig struct {
	Type            string   `yaml:"type"`
	TokenURL        string   `yaml:"token_url"`
	ClientID        string   `yaml:"client_id"`
	ClientSecretEnv string   `yaml:"client_secret_env"`
	Scopes          []string `yaml:"scopes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info", Format: "json"},
		Providers: map[string]ProviderConfig{},
	}
}

// Load reads configuration from path. An empty path tries the default
// locations (./bridgeway.yaml, ~/.config/bridgeway/bridgeway.yaml) and
// returns defaults when none exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findDefault()
		if path == "" {
			return cfg, nil
		}
	}

	if err := cfg.loadFromFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Provider returns the overrides for the named adapter; absent entries
// yield the zero value.
func (c *Config) Provider(name string) ProviderConfig {
	return c.Providers[name]
}

func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func findDefault() string {
	candidates := []string{"bridgeway.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "bridgeway", "bridgeway.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
