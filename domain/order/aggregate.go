/*
Package order Order subdomain - the order record and its lifecycle rules

The Order aggregate owns its line items, payment state and the embedded
cancellation summary. All mutations go through aggregate methods which
enforce the status transition table and record domain events; the unit of
work collects those events into the outbox when it commits.
*/
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"github.com/google/uuid"
)

// DefaultCancelReason 直接取消未填写原因时使用
const DefaultCancelReason = "Cancelled by user"

// Order Order aggregate root
type Order struct {
	id              string
	userID          string
	items           []LineItem
	shippingAddress Address
	paymentMethod   PaymentMethod
	paymentResult   *PaymentResult
	prices          Prices
	isPaid          bool
	paidAt          *time.Time
	status          Status
	deliveredAt     *time.Time
	cancellation    *CancellationDetails
	review          ReviewFlag
	version         int // Optimistic lock version number
	createdAt       time.Time
	updatedAt       time.Time

	events []shared.DomainEvent
	isNew  bool
}

// LineItem Order line item - a snapshot of the product at order time
type LineItem struct {
	productID string
	name      string
	unitPrice shared.Money
	quantity  int
	size      string
	image     string
}

// PlaceOptions Create order options
type PlaceOptions struct {
	UserID          string
	Items           []ItemRequest
	ShippingAddress Address
	PaymentMethod   PaymentMethod
	Prices          Prices
}

// ItemRequest Create order item request
type ItemRequest struct {
	ProductRef string
	Name       string
	UnitPrice  shared.Money
	Quantity   int
	Size       string
	Image      string
}

// ============================================================================
// Factory Methods
// ============================================================================

// NewOrder creates an order in Processing, unpaid.
// Malformed product references are coerced and the order is flagged for review.
func NewOrder(opts PlaceOptions) (*Order, error) {
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, shared.NewValidationError("order", "user", "order owner is required")
	}
	if len(opts.Items) == 0 {
		return nil, NewValidationError(ErrEmptyOrderItems, "orderItems", "order must have at least one item")
	}
	if err := opts.ShippingAddress.validate(); err != nil {
		return nil, err
	}
	paymentMethod, err := ParsePaymentMethod(string(opts.PaymentMethod))
	if err != nil {
		return nil, err
	}
	if err := opts.Prices.validate(); err != nil {
		return nil, err
	}

	var reviewNotes []string
	items := make([]LineItem, len(opts.Items))
	for i, req := range opts.Items {
		if req.Quantity <= 0 {
			return nil, NewValidationError(ErrInvalidQuantity, fmt.Sprintf("orderItems[%d].qty", i), "quantity must be positive")
		}
		if req.UnitPrice.IsNegative() {
			return nil, NewValidationError(ErrNegativeAmount, fmt.Sprintf("orderItems[%d].price", i), "price must not be negative")
		}
		if _, err := req.UnitPrice.Multiply(req.Quantity); err != nil {
			return nil, NewValidationError(ErrNegativeAmount, fmt.Sprintf("orderItems[%d].price", i), "line amount out of range")
		}
		if strings.TrimSpace(req.Name) == "" {
			return nil, shared.NewValidationError("order", fmt.Sprintf("orderItems[%d].name", i), "item name is required")
		}

		productID, coerced, refErr := NormalizeProductRef(req.ProductRef)
		if refErr != nil {
			return nil, refErr
		}
		if coerced {
			reviewNotes = append(reviewNotes, fmt.Sprintf("item %d: product reference %q coerced to %s", i, req.ProductRef, productID))
		}

		items[i] = LineItem{
			productID: productID,
			name:      strings.TrimSpace(req.Name),
			unitPrice: req.UnitPrice,
			quantity:  req.Quantity,
			size:      req.Size,
			image:     req.Image,
		}
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	now := time.Now().UTC()
	order := &Order{
		id:              orderID.String(),
		userID:          opts.UserID,
		items:           items,
		shippingAddress: opts.ShippingAddress,
		paymentMethod:   paymentMethod,
		prices:          opts.Prices,
		status:          StatusProcessing,
		createdAt:       now,
		updatedAt:       now,
		isNew:           true,
	}

	order.events = append(order.events, NewOrderPlacedEvent(order.id, order.userID, order.paymentMethod, order.prices.Total))
	if len(reviewNotes) > 0 {
		order.review = ReviewFlag{NeedsReview: true, Notes: reviewNotes}
		order.events = append(order.events, NewOrderFlaggedForReviewEvent(order.id, reviewNotes))
	}

	return order, nil
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object
// ⚠️ Note: This DTO should only be used in repository implementation
type ReconstructionDTO struct {
	ID              string
	UserID          string
	Items           []LineItem
	ShippingAddress Address
	PaymentMethod   PaymentMethod
	PaymentResult   *PaymentResult
	Prices          Prices
	IsPaid          bool
	PaidAt          *time.Time
	Status          Status
	DeliveredAt     *time.Time
	Cancellation    *CancellationDetails
	Review          ReviewFlag
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RebuildFromDTO Reconstruct Order aggregate root from DTO
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:              dto.ID,
		userID:          dto.UserID,
		items:           dto.Items,
		shippingAddress: dto.ShippingAddress,
		paymentMethod:   dto.PaymentMethod,
		paymentResult:   dto.PaymentResult,
		prices:          dto.Prices,
		isPaid:          dto.IsPaid,
		paidAt:          dto.PaidAt,
		status:          dto.Status,
		deliveredAt:     dto.DeliveredAt,
		cancellation:    dto.Cancellation,
		review:          dto.Review,
		version:         dto.Version,
		createdAt:       dto.CreatedAt,
		updatedAt:       dto.UpdatedAt,
	}
}

// Snapshot exports the aggregate state for persistence adapters
// ⚠️ Note: repository use only; line items and notes are copied
func (o *Order) Snapshot() ReconstructionDTO {
	var review ReviewFlag
	review.NeedsReview = o.review.NeedsReview
	review.Notes = append([]string(nil), o.review.Notes...)
	return ReconstructionDTO{
		ID:              o.id,
		UserID:          o.userID,
		Items:           o.Items(),
		ShippingAddress: o.shippingAddress,
		PaymentMethod:   o.paymentMethod,
		PaymentResult:   o.PaymentResult(),
		Prices:          o.prices,
		IsPaid:          o.isPaid,
		PaidAt:          o.paidAt,
		Status:          o.status,
		DeliveredAt:     o.deliveredAt,
		Cancellation:    o.Cancellation(),
		Review:          review,
		Version:         o.version,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
	}
}

// ItemReconstructionDTO line item reconstruction data
type ItemReconstructionDTO struct {
	ProductID string
	Name      string
	UnitPrice shared.Money
	Quantity  int
	Size      string
	Image     string
}

func RebuildItemFromDTO(dto ItemReconstructionDTO) LineItem {
	return LineItem{
		productID: dto.ProductID,
		name:      dto.Name,
		unitPrice: dto.UnitPrice,
		quantity:  dto.Quantity,
		size:      dto.Size,
		image:     dto.Image,
	}
}

// ============================================================================
// Payment
// ============================================================================

// MarkPaid records a gateway payment result.
// Business rule: a cancelled or already paid order rejects further payments.
func (o *Order) MarkPaid(result PaymentResult) error {
	if o.status == StatusCancelled {
		return NewOrderCancelledError(o.id)
	}
	if o.isPaid {
		return NewAlreadyPaidError(o.id)
	}
	if strings.TrimSpace(result.ID) == "" {
		return shared.NewValidationError("order", "paymentResult.id", "payment result id is required")
	}

	now := time.Now().UTC()
	if result.UpdateTime.IsZero() {
		result.UpdateTime = now
	}
	o.isPaid = true
	o.paidAt = &now
	o.paymentResult = &result
	o.updatedAt = now
	o.events = append(o.events, NewOrderPaidEvent(o.id, result.ID, result.Status, o.paymentMethod))
	return nil
}

// MarkCashOnDeliveryPaid confirms collection of a cash on delivery order
// with a synthetic transaction id.
func (o *Order) MarkCashOnDeliveryPaid() error {
	if o.paymentMethod != PaymentCashOnDelivery {
		return NewNotCashOnDeliveryError(o.paymentMethod)
	}
	now := time.Now().UTC()
	return o.MarkPaid(PaymentResult{
		ID:         fmt.Sprintf("COD-%s-%d", o.id, now.UnixMilli()),
		Status:     "COMPLETED",
		UpdateTime: now,
	})
}

// ============================================================================
// Status transitions
// ============================================================================

// UpdateStatus moves the order along the fulfilment path.
// Cancellation is not reachable here; it goes through the cancellation operations
// so the ledger stays authoritative.
func (o *Order) UpdateStatus(target Status) error {
	if target == StatusCancelled {
		return NewCancelThroughStatusError()
	}
	if !o.status.CanTransitionTo(target) {
		return NewInvalidOrderStateError(o.status, target)
	}

	from := o.status
	now := time.Now().UTC()
	o.status = target
	if target == StatusDelivered {
		o.deliveredAt = &now
	}
	o.updatedAt = now
	o.events = append(o.events, NewOrderStatusChangedEvent(o.id, from, target))
	return nil
}

// EnsureCancellable Delivered or Cancelled orders reject cancellation
func (o *Order) EnsureCancellable() error {
	if !o.status.IsCancellable() {
		return NewInvalidOrderStateError(o.status, StatusCancelled)
	}
	return nil
}

// ============================================================================
// Cancellation
// ============================================================================

// RequestCancellation records a pending request on the embedded summary.
func (o *Order) RequestCancellation(reason string) error {
	if err := o.EnsureCancellable(); err != nil {
		return err
	}
	if o.cancellation != nil && o.cancellation.Status == cancellation.StatusPending {
		return cancellation.NewAlreadyPendingError(o.id)
	}

	now := time.Now().UTC()
	o.cancellation = &CancellationDetails{
		RequestedAt: now,
		Reason:      reason,
		Status:      cancellation.StatusPending,
	}
	o.updatedAt = now
	return nil
}

// ApplyCancellationDecision mirrors an admin decision from the ledger.
// Approved also moves the order to Cancelled.
func (o *Order) ApplyCancellationDecision(decision cancellation.Status, reason, note string) error {
	if decision == cancellation.StatusApproved {
		if err := o.EnsureCancellable(); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	details := CancellationDetails{RequestedAt: now, Reason: reason}
	if o.cancellation != nil {
		details = *o.cancellation
	}
	details.Status = decision
	details.AdminNote = note
	o.cancellation = &details
	o.updatedAt = now

	if decision == cancellation.StatusApproved {
		o.status = StatusCancelled
		o.events = append(o.events, NewOrderCancelledEvent(o.id, details.Reason, false))
	}
	return nil
}

// Cancel cancels the order directly, bypassing the request/approve cycle.
func (o *Order) Cancel(reason string) error {
	if err := o.EnsureCancellable(); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancelReason
	}

	now := time.Now().UTC()
	o.status = StatusCancelled
	o.cancellation = &CancellationDetails{
		RequestedAt: now,
		Reason:      reason,
		Status:      cancellation.StatusApproved,
	}
	o.updatedAt = now
	o.events = append(o.events, NewOrderCancelledEvent(o.id, reason, true))
	return nil
}

// MarkRemoved records the administrative hard delete
func (o *Order) MarkRemoved(adminID string) {
	o.events = append(o.events, NewOrderRemovedEvent(o.id, adminID))
}

// IncrementVersionForSave is called by the repository after a successful update
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ClearDirtyTracking is called by the repository after any successful save
func (o *Order) ClearDirtyTracking() {
	o.isNew = false
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string     { return o.id }
func (o *Order) UserID() string { return o.userID }

// Items Return copy of line items
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}
func (o *Order) ShippingAddress() Address     { return o.shippingAddress }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) PaymentResult() *PaymentResult {
	if o.paymentResult == nil {
		return nil
	}
	r := *o.paymentResult
	return &r
}
func (o *Order) Prices() Prices            { return o.prices }
func (o *Order) IsPaid() bool              { return o.isPaid }
func (o *Order) PaidAt() *time.Time        { return o.paidAt }
func (o *Order) Status() Status            { return o.status }
func (o *Order) DeliveredAt() *time.Time   { return o.deliveredAt }
func (o *Order) Review() ReviewFlag        { return o.review }
func (o *Order) Version() int              { return o.version }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }
func (o *Order) IsNew() bool               { return o.isNew }

// IsOwnedBy ownership check used for authorization
func (o *Order) IsOwnedBy(userID string) bool { return userID != "" && o.userID == userID }

func (o *Order) Cancellation() *CancellationDetails {
	if o.cancellation == nil {
		return nil
	}
	c := *o.cancellation
	return &c
}

// PullEvents Get and clear aggregate root's event list
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

// LineItem getters

func (item LineItem) ProductID() string       { return item.productID }
func (item LineItem) Name() string            { return item.name }
func (item LineItem) UnitPrice() shared.Money { return item.unitPrice }
func (item LineItem) Quantity() int           { return item.quantity }
func (item LineItem) Size() string            { return item.size }
func (item LineItem) Image() string           { return item.image }

// Subtotal unit price × quantity; overflow is rejected at creation
func (item LineItem) Subtotal() shared.Money {
	sub, err := item.unitPrice.Multiply(item.quantity)
	if err != nil {
		return shared.Zero(item.unitPrice.Currency())
	}
	return sub
}

var _ shared.AggregateRoot = (*Order)(nil)
