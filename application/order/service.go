/*
Package order Application Layer - Order Business Process Orchestration

Responsibilities of Application Layer:
1. Receive external requests (usually from Controller)
2. Check the acting principal (owner or admin)
3. Call aggregate root methods to execute business operations
4. Use UoW to manage transactions and event collection (Outbox pattern)
5. Return results to caller

Important: Application services do not directly publish events!
- UoW collects events from aggregates and saves to outbox table before commit
- The outbox worker reads the outbox table asynchronously and publishes to the bus
- Ledger rows and the order's embedded cancellation view are written in the same UoW
*/
package order

import (
	"context"
	"errors"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"
)

// ApplicationService Order application service - coordinates order-related business processes
type ApplicationService struct {
	orderRepo          order.Repository
	ledger             cancellation.Repository
	users              user.Directory
	orderDomainService *order.DomainService
	uowFactory         shared.UnitOfWorkFactory
	currency           string
}

// NewApplicationService Create order application service
func NewApplicationService(
	orderRepo order.Repository,
	ledger cancellation.Repository,
	users user.Directory,
	uowFactory shared.UnitOfWorkFactory,
	currency string,
) *ApplicationService {
	if currency == "" {
		currency = "USD"
	}
	return &ApplicationService{
		orderRepo:          orderRepo,
		ledger:             ledger,
		users:              users,
		orderDomainService: order.NewDomainService(orderRepo),
		uowFactory:         uowFactory,
		currency:           currency,
	}
}

// ============================================================================
// Order record
// ============================================================================

// CreateOrder places an order for the principal: Processing, unpaid.
func (s *ApplicationService) CreateOrder(ctx context.Context, principal shared.Principal, req CreateOrderRequest) (*OrderResponse, error) {
	if principal.ID == "" {
		return nil, shared.NewUnauthorizedError("authentication required")
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = order.NewOrder(toPlaceOptions(principal.ID, s.currency, req))
		if err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// GetOrder owner or admin only
func (s *ApplicationService) GetOrder(ctx context.Context, principal shared.Principal, orderID string) (*OrderResponse, error) {
	o, err := s.orderDomainService.LoadForPrincipal(ctx, orderID, principal)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListMyOrders the caller's orders, newest first
func (s *ApplicationService) ListMyOrders(ctx context.Context, principal shared.Principal) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ListOrders admin listing with optional status / review filters
func (s *ApplicationService) ListOrders(ctx context.Context, principal shared.Principal, query ListOrdersQuery) (*OrderPageResponse, error) {
	if err := principal.RequireAdmin("order"); err != nil {
		return nil, err
	}

	var spec shared.Specification[*order.Order]
	if query.Status != "" {
		status, err := order.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		spec = order.NewByStatusSpecification(status)
	}
	if query.NeedsReview {
		spec = andSpec(spec, order.NewNeedsReviewSpecification())
	}

	page := shared.NewPage(query.Page, query.PageSize)
	orders, total, err := s.orderRepo.List(ctx, spec, page)
	if err != nil {
		return nil, err
	}

	pageNumber := 1
	if query.Page > 1 {
		pageNumber = query.Page
	}
	return &OrderPageResponse{
		Orders:   toOrderResponses(orders),
		Total:    total,
		Page:     pageNumber,
		PageSize: page.Limit,
	}, nil
}

func andSpec(left, right shared.Specification[*order.Order]) shared.Specification[*order.Order] {
	if left == nil {
		return right
	}
	return shared.And(left, right)
}

// ============================================================================
// Payment & fulfilment
// ============================================================================

// MarkPaid records the gateway result on an order the principal may act on
func (s *ApplicationService) MarkPaid(ctx context.Context, principal shared.Principal, orderID string, req PayOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, principal, func(o *order.Order) error {
		return o.MarkPaid(toPaymentResult(req))
	})
}

// UpdateStatus admin-only fulfilment transition
func (s *ApplicationService) UpdateStatus(ctx context.Context, principal shared.Principal, orderID string, req UpdateStatusRequest) (*OrderResponse, error) {
	if err := principal.RequireAdmin("order"); err != nil {
		return nil, err
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, principal, func(o *order.Order) error {
		return o.UpdateStatus(target)
	})
}

// MarkCashOnDeliveryPaid admin confirms cash collection
func (s *ApplicationService) MarkCashOnDeliveryPaid(ctx context.Context, principal shared.Principal, orderID string) (*OrderResponse, error) {
	if err := principal.RequireAdmin("order"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, principal, func(o *order.Order) error {
		return o.MarkCashOnDeliveryPaid()
	})
}

// mutate loads, applies fn and saves one order inside a unit of work
func (s *ApplicationService) mutate(ctx context.Context, orderID string, principal shared.Principal, fn func(o *order.Order) error) (*OrderResponse, error) {
	var o *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderDomainService.LoadForPrincipal(ctx, orderID, principal)
		if err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ============================================================================
// Cancellation
// ============================================================================

// RequestCancellation opens a Pending ledger row and mirrors it on the order
func (s *ApplicationService) RequestCancellation(ctx context.Context, principal shared.Principal, orderID string, req CancellationRequestBody) (*CancellationCreatedResponse, error) {
	var created *cancellation.Request
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderDomainService.LoadForPrincipal(ctx, orderID, principal)
		if err != nil {
			return err
		}

		created, err = cancellation.NewRequest(o.ID(), principal.ID, req.Reason)
		if err != nil {
			return err
		}
		if err := o.RequestCancellation(created.Reason()); err != nil {
			return err
		}

		// 友好提示；真正的约束由存储层唯一索引保证
		if _, err := s.ledger.FindPendingByOrderID(ctx, o.ID()); err == nil {
			return cancellation.NewAlreadyPendingError(o.ID())
		} else if !errors.Is(err, cancellation.ErrRequestNotFound) {
			return err
		}

		if err := s.ledger.Save(ctx, created); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(created)
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CancellationCreatedResponse{CancellationID: created.ID()}, nil
}

// ProcessCancellation admin decides the order's Pending request
func (s *ApplicationService) ProcessCancellation(ctx context.Context, principal shared.Principal, orderID string, req ProcessCancellationRequest) (*OrderResponse, error) {
	if err := principal.RequireAdmin(cancellationEntity); err != nil {
		return nil, err
	}
	decision, err := cancellation.ParseDecision(req.Decision)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		pending, err := s.ledger.FindPendingByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := pending.Decide(decision, req.AdminNote, principal.ID); err != nil {
			return err
		}
		if err := o.ApplyCancellationDecision(decision, pending.Reason(), pending.AdminNote()); err != nil {
			return err
		}

		if err := s.ledger.Save(ctx, pending); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(pending)
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// CancelOrder cancels directly and records an Approved ledger row.
// An open Pending request is approved in place instead of adding a second row.
func (s *ApplicationService) CancelOrder(ctx context.Context, principal shared.Principal, orderID string, req CancellationRequestBody) (*OrderResponse, error) {
	processedBy := ""
	if principal.IsAdmin {
		processedBy = principal.ID
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderDomainService.LoadForPrincipal(ctx, orderID, principal)
		if err != nil {
			return err
		}
		if err := o.Cancel(req.Reason); err != nil {
			return err
		}

		row, err := s.ledger.FindPendingByOrderID(ctx, o.ID())
		switch {
		case err == nil:
			if err := row.Supersede(processedBy); err != nil {
				return err
			}
		case errors.Is(err, cancellation.ErrRequestNotFound):
			row, err = cancellation.NewApprovedRequest(o.ID(), principal.ID, o.Cancellation().Reason, processedBy)
			if err != nil {
				return err
			}
		default:
			return err
		}

		if err := s.ledger.Save(ctx, row); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(row)
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// DeleteOrder administrative hard delete of the order and its ledger rows
func (s *ApplicationService) DeleteOrder(ctx context.Context, principal shared.Principal, orderID string) error {
	if err := principal.RequireAdmin("order"); err != nil {
		return err
	}

	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.ledger.RemoveByOrderID(ctx, orderID); err != nil {
			return err
		}
		if err := s.orderRepo.Remove(ctx, orderID); err != nil {
			return err
		}
		o.MarkRemoved(principal.ID)
		uow.RegisterRemoved(o)
		return nil
	})
}

const cancellationEntity = "cancellation_request"

// ListCancellationRequests admin view of the ledger, newest first, with the referenced order and users resolved
func (s *ApplicationService) ListCancellationRequests(ctx context.Context, principal shared.Principal, status string) ([]CancellationListItem, error) {
	if err := principal.RequireAdmin(cancellationEntity); err != nil {
		return nil, err
	}

	var spec shared.Specification[*cancellation.Request]
	if status != "" {
		parsed, ok := cancellation.ParseStatus(status)
		if !ok {
			return nil, shared.NewValidationError(cancellationEntity, "status", "unknown cancellation status "+status)
		}
		spec = cancellation.NewByStatusSpecification(parsed)
	}

	rows, err := s.ledger.List(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []CancellationListItem{}, nil
	}

	orderIDs := make([]string, 0, len(rows))
	userIDs := make([]string, 0, len(rows)*2)
	for _, r := range rows {
		orderIDs = append(orderIDs, r.OrderID())
		userIDs = append(userIDs, r.UserID())
		if r.ProcessedBy() != "" {
			userIDs = append(userIDs, r.ProcessedBy())
		}
	}

	found, err := s.orderRepo.FindByIDs(ctx, dedupe(orderIDs))
	if err != nil {
		return nil, err
	}
	orders := make(map[string]*order.Order, len(found))
	for _, o := range found {
		orders[o.ID()] = o
	}
	profiles, err := s.users.FindByIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, err
	}

	items := make([]CancellationListItem, len(rows))
	for i, r := range rows {
		items[i] = toCancellationListItem(r, orders, profiles)
	}
	return items, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
