package cancellation

import "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

type RequestedEvent struct {
	shared.EventMeta
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Reason  string `json:"reason"`
}

func NewRequestedEvent(requestID, orderID, userID, reason string) *RequestedEvent {
	return &RequestedEvent{
		EventMeta: shared.NewEventMeta(requestID),
		OrderID:   orderID,
		UserID:    userID,
		Reason:    reason,
	}
}

func (e *RequestedEvent) EventName() string { return "cancellation.requested" }

// ProcessedEvent Direct 为 true 表示来自直接取消而非管理员审批
type ProcessedEvent struct {
	shared.EventMeta
	OrderID     string `json:"order_id"`
	Decision    Status `json:"decision"`
	ProcessedBy string `json:"processed_by,omitempty"`
	Direct      bool   `json:"direct"`
}

func NewProcessedEvent(requestID, orderID string, decision Status, processedBy string, direct bool) *ProcessedEvent {
	return &ProcessedEvent{
		EventMeta:   shared.NewEventMeta(requestID),
		OrderID:     orderID,
		Decision:    decision,
		ProcessedBy: processedBy,
		Direct:      direct,
	}
}

func (e *ProcessedEvent) EventName() string { return "cancellation.processed" }
