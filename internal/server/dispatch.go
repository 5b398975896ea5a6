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

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/codes"

	"github.com/arcwise/bridgeway/internal/authctx"
	"github.com/arcwise/bridgeway/internal/log"
)

// dispatch wraps a tool handler with the per-call envelope: request ID,
// structured logging, panic recovery, metrics, a trace span, and the
// error-to-text conversion. A handler error or panic always becomes a
// textual tool result; the MCP transport never sees it as a protocol error,
// so one failing call cannot take down the session or its neighbors.
func (s *Server) dispatch(tool string, handler mcpsrv.ToolHandlerFunc) mcpsrv.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		requestID := uuid.NewString()
		logger := s.logger.With(
			slog.String(log.RequestIDKey, requestID),
			slog.String(log.ToolKey, tool),
		)
		start := time.Now()

		ctx, span := s.tracer.Start(ctx, "tool."+tool)
		defer span.End()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("tool call panicked", slog.Any("panic", r))
				span.SetStatus(codes.Error, "panic")
				toolCalls.WithLabelValues(s.provider.Name(), tool, "panic").Inc()
				result = errorResult(fmt.Errorf("internal error in %s", tool))
				err = nil
			}
		}()

		logger.Debug("tool call started")
		res, callErr := handler(ctx, req)

		status := "ok"
		if callErr != nil {
			status = "error"
			span.SetStatus(codes.Error, callErr.Error())
			logger.Warn("tool call failed", slog.String("error", callErr.Error()))
			res = errorResult(callErr)
		}

		elapsed := time.Since(start)
		toolCalls.WithLabelValues(s.provider.Name(), tool, status).Inc()
		toolDuration.WithLabelValues(s.provider.Name(), tool).Observe(elapsed.Seconds())
		logger.Info("tool call finished",
			slog.String("status", status),
			slog.Int64(log.DurationKey, elapsed.Milliseconds()),
		)
		return res, nil
	}
}

// errorResult converts a handler error into the textual form clients see.
// Missing credentials get an explicit unauthorized prefix so agents know to
// fix auth rather than retry.
func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, authctx.ErrMissingCredentials) {
		return mcp.NewToolResultError("Error: unauthorized: " + err.Error())
	}
	return mcp.NewToolResultError("Error: " + err.Error())
}
