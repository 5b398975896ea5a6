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

// Package commands implements the bridgeway CLI.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arcwise/bridgeway/internal/config"
	"github.com/arcwise/bridgeway/internal/log"
)

// Version is the build version, overridden at link time.
var Version = "dev"

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the bridgeway command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "bridgeway",
		Short: "MCP adapter servers for SaaS APIs",
		Long: `Bridgeway serves third-party SaaS APIs as MCP tools.

Each provider (confluence, datadog, mem0, onedrive, slack) runs as its own
MCP server over stdio, SSE, or streamable HTTP. Credentials come from
transport headers, environment variables, or the OS keyring.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to bridgeway.yaml")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (json, text)")

	cmd.AddCommand(
		newServeCommand(flags),
		newToolsCommand(flags),
		newAuthCommand(),
		newVersionCommand(),
	)
	return cmd
}

// setup loads the config file and builds the logger, applying flag
// overrides on top of file values.
func (f *rootFlags) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}

	logCfg := log.FromEnv()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = log.Format(cfg.Log.Format)
	}
	if f.logLevel != "" {
		logCfg.Level = f.logLevel
	}
	if f.logFormat != "" {
		logCfg.Format = log.Format(f.logFormat)
	}

	return cfg, log.New(logCfg), nil
}
