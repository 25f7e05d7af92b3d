package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	loggerKey    ctxKey = "logger"
)

// Time logs the duration of an operation when the returned func is deferred:
//
//	defer obs.Time(ctx, "optimize.solve")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	logger := FromContext(ctx)

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		fields := []zap.Field{
			zap.String("req_id", reqID),
			zap.String("op", name),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		}
		if errp != nil && *errp != nil {
			logger.Warn("operation failed", append(fields, zap.Error(*errp))...)
			return
		}
		logger.Info("operation finished", fields...)
	}
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
