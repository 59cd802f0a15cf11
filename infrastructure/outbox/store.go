package outbox

import (
	"context"
	"time"
)

// Store is the worker's view of an outbox table
type Store interface {
	// FetchPending returns the oldest pending records
	FetchPending(ctx context.Context, limit int) ([]Record, error)

	// MarkProcessing claims a pending record; it fails when another worker got there first
	MarkProcessing(ctx context.Context, id string) error

	MarkPublished(ctx context.Context, id string) error

	// MarkFailed increments the retry count and parks the record as FAILED after maxRetries
	MarkFailed(ctx context.Context, id string, reason string, maxRetries int) error

	// ReclaimStale returns PROCESSING records last touched before cutoff to PENDING,
	// so events claimed by a crashed worker are relayed again
	ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// Publisher relays a record to the message bus
type Publisher interface {
	Publish(ctx context.Context, eventType, aggregateID string, payload []byte) error
}
