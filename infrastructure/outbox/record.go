/*
Package outbox implements the transactional outbox: events are written in the
same transaction as the aggregates that raised them, and a background worker
relays them to the message bus.
*/
package outbox

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/google/uuid"
)

// Status outbox row status
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusPublished  Status = "PUBLISHED"
	StatusFailed     Status = "FAILED"
)

// Record a stored event awaiting relay
type Record struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     []byte
	Status      Status
	RetryCount  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// envelope is the JSON shape consumers receive
type envelope struct {
	EventName   string             `json:"event_name"`
	AggregateID string             `json:"aggregate_id"`
	OccurredOn  time.Time          `json:"occurred_on"`
	Data        shared.DomainEvent `json:"data"`
}

// NewRecord serializes a domain event into a pending outbox record
func NewRecord(event shared.DomainEvent) (Record, error) {
	if err := shared.ValidateEvent(event); err != nil {
		return Record{}, fmt.Errorf("invalid domain event: %w", err)
	}

	payload, err := json.Marshal(envelope{
		EventName:   event.EventName(),
		AggregateID: event.GetAggregateID(),
		OccurredOn:  event.OccurredOn(),
		Data:        event,
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize event %s: %w", event.EventName(), err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate outbox ID: %w", err)
	}

	now := time.Now().UTC()
	return Record{
		ID:          id.String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NextStatus after a failed publish: back to pending until retries run out
func NextStatus(retryCount, maxRetries int) Status {
	if retryCount < maxRetries {
		return StatusPending
	}
	return StatusFailed
}

// MaxErrorLength last_error 列的字节上限
const MaxErrorLength = 1000

// TruncateError 截断到 MaxErrorLength 字节以内，不拆分多字节字符
func TruncateError(reason string) string {
	if len(reason) <= MaxErrorLength {
		return reason
	}
	cut := MaxErrorLength
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return reason[:cut]
}
