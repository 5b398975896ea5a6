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

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/arcwise/bridgeway/internal/config"
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/provider/builtin"
	"github.com/arcwise/bridgeway/internal/server"
	"github.com/arcwise/bridgeway/internal/transport"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var (
		transportName string
		addr          string
		traceOut      bool
	)

	cmd := &cobra.Command{
		Use:   "serve <provider>",
		Short: "Run one provider as an MCP server",
		Long: `Run the named provider as an MCP server.

Transports:
  stdio  stdin/stdout, for local agent integrations (default)
  sse    Server-Sent Events on --addr
  http   streamable HTTP on --addr (MCP on /mcp, metrics on /metrics)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup()
			if err != nil {
				return err
			}

			if traceOut {
				if err := enableTracing(); err != nil {
					return err
				}
			}

			name := args[0]
			pcfg := cfg.Provider(name)
			tr, err := buildTransport(name, pcfg)
			if err != nil {
				return err
			}
			p, err := builtin.Registry().New(name, &provider.Config{
				BaseURL:   pcfg.BaseURL,
				Site:      pcfg.Site,
				EnvVars:   pcfg.EnvVars,
				Transport: tr,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			srv := server.New(p, server.Options{Logger: logger, Version: Version})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			switch transportName {
			case "stdio":
				return srv.ServeStdio(ctx)
			case "sse":
				return srv.ServeSSE(ctx, addr)
			case "http":
				return srv.ServeHTTP(ctx, addr)
			default:
				return fmt.Errorf("unknown transport %q (stdio, sse, http)", transportName)
			}
		},
	}

	cmd.Flags().StringVarP(&transportName, "transport", "t", "stdio", "transport: stdio, sse, or http")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8765", "listen address for sse and http transports")
	cmd.Flags().BoolVar(&traceOut, "trace", false, "emit trace spans to stderr")
	return cmd
}

// buildTransport constructs the transport a provider's auth block asks for.
// No auth block means nil, letting the adapter use its default HTTP
// transport. The client secret is never written in the file; the block names
// the env var that holds it.
func buildTransport(name string, pcfg config.ProviderConfig) (transport.Transport, error) {
	switch pcfg.Auth.Type {
	case "":
		return nil, nil
	case "oauth2":
		secret := os.Getenv(pcfg.Auth.ClientSecretEnv)
		if secret == "" {
			return nil, fmt.Errorf("provider %s: oauth2 client secret env var %s is not set", name, pcfg.Auth.ClientSecretEnv)
		}
		return transport.NewOAuth2(&transport.OAuth2Config{
			TokenURL:     pcfg.Auth.TokenURL,
			ClientID:     pcfg.Auth.ClientID,
			ClientSecret: secret,
			Scopes:       pcfg.Auth.Scopes,
		})
	default:
		return nil, fmt.Errorf("provider %s: unknown auth type %q (oauth2)", name, pcfg.Auth.Type)
	}
}

// enableTracing installs a stderr span exporter as the global tracer
// provider. Meant for debugging tool call flow, not production export.
func enableTracing() error {
	// Spans go to stderr: the stdio transport owns stdout.
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("create trace exporter: %w", err)
	}
	otel.SetTracerProvider(sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	))
	slog.Debug("tracing enabled")
	return nil
}
