package main

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or a no-op logger when none
// was attached.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
