package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields adds fields to the logger in context and returns new context
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	logger := ctxzap.Extract(ctx)
	return ctxzap.ToContext(ctx, logger.With(fields...))
}

// WithAction adds "action" field to context logger to describe the flow
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithRun tags every line logged during one ingestion run.
func WithRun(ctx context.Context, runID, project string) context.Context {
	return AddFields(ctx,
		zap.String("run_id", runID),
		zap.String("project", project),
	)
}

// WithPage scopes the context logger to a single source page.
func WithPage(ctx context.Context, title string) context.Context {
	return AddFields(ctx, zap.String("page_title", title))
}
