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

// Package server assembles one vendor adapter into a running MCP server
// over stdio, SSE, or streamable HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	mcpsrv "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/provider"
)

// Server hosts one adapter's tools behind the MCP protocol.
type Server struct {
	mcp      *mcpsrv.MCPServer
	provider provider.Provider
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Options configures server construction. Zero values select defaults.
type Options struct {
	// Logger receives dispatch logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Version is reported to MCP clients during initialization.
	Version string
}

// New builds a server for the given adapter. Every tool handler is wrapped
// by the dispatch envelope before registration.
func New(p provider.Provider, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		provider: p,
		logger:   logger.With(slog.String("provider", p.Name())),
		tracer:   otel.Tracer("bridgeway/" + p.Name()),
	}

	m := mcpsrv.NewMCPServer("bridgeway-"+p.Name(), version)
	for _, t := range p.Tools() {
		m.AddTool(t.Tool, s.dispatch(t.Tool.Name, t.Handler))
	}
	s.mcp = m
	return s
}

// ServeStdio runs the server over stdin/stdout until ctx is cancelled.
// Stdio sessions have no transport headers, so credentials come from the
// environment or the OS keyring and apply to the whole session.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := mcpsrv.NewStdioServer(s.mcp)
	stdio.SetContextFunc(func(ctx context.Context) context.Context {
		if creds, ok := authctx.Resolve(nil, s.provider.Name(), s.provider.EnvVars()...); ok {
			return authctx.WithCredentials(ctx, creds)
		}
		return ctx
	})

	s.logger.Info("listening on stdio")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// ServeSSE runs the server over the SSE transport on addr until ctx is
// cancelled. Per-request credentials arrive in transport headers.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := mcpsrv.NewSSEServer(s.mcp,
		mcpsrv.WithSSEContextFunc(s.headerContext),
	)

	s.logger.Info("listening on sse", slog.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := sse.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("sse server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return sse.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// ServeHTTP runs the server over streamable HTTP on addr until ctx is
// cancelled. The MCP endpoint is /mcp; Prometheus metrics are exposed on
// /metrics of the same listener.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	stream := mcpsrv.NewStreamableHTTPServer(s.mcp,
		mcpsrv.WithHTTPContextFunc(s.headerContext),
	)

	mux := http.NewServeMux()
	mux.Handle("/mcp", stream)
	mux.Handle("/metrics", promhttp.Handler())
	httpSrv := &http.Server{Addr: addr, Handler: mux}

	s.logger.Info("listening on http", slog.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return httpSrv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// headerContext installs per-request credentials from transport headers,
// falling back to env and keyring for single-tenant deployments. A request
// with no resolvable credential proceeds without one; the handler reports
// unauthorized when it needs a secret.
func (s *Server) headerContext(ctx context.Context, r *http.Request) context.Context {
	if creds, ok := authctx.Resolve(r.Header, s.provider.Name(), s.provider.EnvVars()...); ok {
		return authctx.WithCredentials(ctx, creds)
	}
	return ctx
}
