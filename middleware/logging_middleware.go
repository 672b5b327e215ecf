package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"remotefs/protocol"
)

// LoggingMiddleware records every dispatched call with its duration.
// Fatal connection errors are logged at error level; calls that were served,
// including ones answering a remote syscall failure, log at debug.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, op protocol.Op) error {
			start := time.Now()
			err := next(ctx, op)
			if err != nil {
				logger.Error("call failed",
					zap.Stringer("op", op),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err))
				return err
			}
			logger.Debug("call served",
				zap.Stringer("op", op),
				zap.Duration("duration", time.Since(start)))
			return nil
		}
	}
}
