package po

import (
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"` // e.g., "order.placed", "cancellation.requested"
	Payload     []byte    `gorm:"not null"`
	Status      string    `gorm:"size:20;index;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	LastError   string    `gorm:"size:1000"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

func FromOutboxRecord(r outbox.Record) *OutboxEventPO {
	return &OutboxEventPO{
		ID:          r.ID,
		AggregateID: r.AggregateID,
		EventType:   r.EventType,
		Payload:     r.Payload,
		Status:      string(r.Status),
		RetryCount:  r.RetryCount,
		LastError:   r.LastError,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (p *OutboxEventPO) ToRecord() outbox.Record {
	return outbox.Record{
		ID:          p.ID,
		AggregateID: p.AggregateID,
		EventType:   p.EventType,
		Payload:     p.Payload,
		Status:      outbox.Status(p.Status),
		RetryCount:  p.RetryCount,
		LastError:   p.LastError,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
