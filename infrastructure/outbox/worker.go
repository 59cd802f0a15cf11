package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"go.uber.org/zap"
)

// LoggingPublisher logs events instead of relaying them; used when no bus is configured
type LoggingPublisher struct{}

func (LoggingPublisher) Publish(ctx context.Context, eventType, aggregateID string, payload []byte) error {
	logger.FromContext(ctx).Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.String("aggregate_id", aggregateID),
		zap.ByteString("payload", payload),
	)
	return nil
}

// DefaultStaleAfter PROCESSING 超过该时长视为 worker 已崩溃
const DefaultStaleAfter = 5 * time.Minute

type Worker struct {
	store        Store
	publisher    Publisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
	staleAfter   time.Duration
}

func NewWorker(store Store, publisher Publisher, pollInterval time.Duration, batchSize, maxRetries int) (*Worker, error) {
	if store == nil {
		return nil, fmt.Errorf("outbox store is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &Worker{
		store:        store,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
		staleAfter:   DefaultStaleAfter,
	}, nil
}

// SetStaleAfter 非正值保留默认
func (w *Worker) SetStaleAfter(d time.Duration) {
	if d > 0 {
		w.staleAfter = d
	}
}

// Run polls until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch relays one batch and returns how many records were published
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	if reclaimed, err := w.store.ReclaimStale(ctx, time.Now().UTC().Add(-w.staleAfter)); err != nil {
		logger.Warn("Failed to reclaim stale outbox events", zap.Error(err))
	} else if reclaimed > 0 {
		logger.Warn("Reclaimed stale outbox events", zap.Int64("count", reclaimed))
	}

	records, err := w.store.FetchPending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, record := range records {
		if err := w.store.MarkProcessing(ctx, record.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", record.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, record.EventType, record.AggregateID, record.Payload); err != nil {
			logger.Warn("Outbox publish failed",
				zap.String("event_id", record.ID),
				zap.String("event_type", record.EventType),
				zap.Int("retry_count", record.RetryCount+1),
				zap.Error(err),
			)
			if failErr := w.store.MarkFailed(ctx, record.ID, err.Error(), w.maxRetries); failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", record.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.store.MarkPublished(ctx, record.ID); err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", record.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	return published, nil
}
