package order

import "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

type OrderPlacedEvent struct {
	shared.EventMeta
	UserID        string        `json:"user_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalCents    int64         `json:"total_cents"`
	Currency      string        `json:"currency"`
}

func NewOrderPlacedEvent(orderID, userID string, method PaymentMethod, total shared.Money) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		EventMeta:     shared.NewEventMeta(orderID),
		UserID:        userID,
		PaymentMethod: method,
		TotalCents:    total.Amount(),
		Currency:      total.Currency(),
	}
}

func (e *OrderPlacedEvent) EventName() string { return "order.placed" }

type OrderFlaggedForReviewEvent struct {
	shared.EventMeta
	Notes []string `json:"notes"`
}

func NewOrderFlaggedForReviewEvent(orderID string, notes []string) *OrderFlaggedForReviewEvent {
	return &OrderFlaggedForReviewEvent{EventMeta: shared.NewEventMeta(orderID), Notes: notes}
}

func (e *OrderFlaggedForReviewEvent) EventName() string { return "order.flagged_for_review" }

type OrderPaidEvent struct {
	shared.EventMeta
	TransactionID string        `json:"transaction_id"`
	PaymentStatus string        `json:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

func NewOrderPaidEvent(orderID, transactionID, status string, method PaymentMethod) *OrderPaidEvent {
	return &OrderPaidEvent{
		EventMeta:     shared.NewEventMeta(orderID),
		TransactionID: transactionID,
		PaymentStatus: status,
		PaymentMethod: method,
	}
}

func (e *OrderPaidEvent) EventName() string { return "order.paid" }

type OrderStatusChangedEvent struct {
	shared.EventMeta
	From Status `json:"from"`
	To   Status `json:"to"`
}

func NewOrderStatusChangedEvent(orderID string, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{EventMeta: shared.NewEventMeta(orderID), From: from, To: to}
}

func (e *OrderStatusChangedEvent) EventName() string { return "order.status_changed" }

type OrderCancelledEvent struct {
	shared.EventMeta
	Reason string `json:"reason"`
	Direct bool   `json:"direct"`
}

func NewOrderCancelledEvent(orderID, reason string, direct bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{EventMeta: shared.NewEventMeta(orderID), Reason: reason, Direct: direct}
}

func (e *OrderCancelledEvent) EventName() string { return "order.cancelled" }

type OrderRemovedEvent struct {
	shared.EventMeta
	RemovedBy string `json:"removed_by"`
}

func NewOrderRemovedEvent(orderID, adminID string) *OrderRemovedEvent {
	return &OrderRemovedEvent{EventMeta: shared.NewEventMeta(orderID), RemovedBy: adminID}
}

func (e *OrderRemovedEvent) EventName() string { return "order.removed" }
