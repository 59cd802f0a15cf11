package shared

import (
	"fmt"
	"time"
)

// DomainEvent 领域事件接口
// 事件结构体字段需可被 JSON 序列化，outbox 直接存储序列化后的载荷
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// EventMeta 所有事件共享的元数据，嵌入到具体事件中
type EventMeta struct {
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewEventMeta(aggregateID string) EventMeta {
	return EventMeta{AggregateID: aggregateID, OccurredAt: time.Now().UTC()}
}

func (m EventMeta) OccurredOn() time.Time  { return m.OccurredAt }
func (m EventMeta) GetAggregateID() string { return m.AggregateID }

// ValidateEvent 在写入 outbox 前检查事件完整性
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}
	return nil
}
