// Package middleware provides interceptors for objmodel registries.
package middleware

import (
	"log/slog"
	"time"

	"github.com/broady/objmodel"
)

// Logging creates an interceptor that logs method calls using slog.
// It logs the start and end of each call, including duration and error status.
func Logging(logger *slog.Logger) objmodel.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx *objmodel.Context, args []any, next objmodel.MethodFunc) (any, error) {
		start := time.Now()
		typeName := ctx.Type().Name()

		logger.Debug("method invoked",
			slog.String("type", typeName),
			slog.String("member", ctx.Member()),
			slog.Int("args", len(args)),
		)

		res, err := next(ctx, args...)
		duration := time.Since(start)

		if err != nil {
			logger.Error("method failed",
				slog.String("type", typeName),
				slog.String("member", ctx.Member()),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
		} else {
			logger.Debug("method completed",
				slog.String("type", typeName),
				slog.String("member", ctx.Member()),
				slog.Duration("duration", duration),
			)
		}

		return res, err
	}
}
