package logger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
)

// NewMongoCommandMonitor reports failed and slow MongoDB commands, tagged with the request id.
func NewMongoCommandMonitor(slowThreshold time.Duration) *event.CommandMonitor {
	base := L().Named("mongo")

	forContext := func(ctx context.Context) *zap.Logger {
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			return base.With(zap.String("request_id", requestID))
		}
		return base
	}

	return &event.CommandMonitor{
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			elapsed := time.Duration(evt.DurationNanos)
			if slowThreshold > 0 && elapsed > slowThreshold {
				forContext(ctx).Warn("Slow Mongo command",
					zap.String("command", evt.CommandName),
					zap.Duration("elapsed", elapsed),
					zap.Duration("threshold", slowThreshold))
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			forContext(ctx).Error("Mongo command failed",
				zap.String("command", evt.CommandName),
				zap.Duration("elapsed", time.Duration(evt.DurationNanos)),
				zap.String("failure", evt.Failure))
		},
	}
}
