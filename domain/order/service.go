package order

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// DomainService Order domain service
// DDD principle: Domain service can use Repository interfaces to query data but does not call Save
type DomainService struct {
	orderRepository Repository
}

func NewDomainService(orderRepo Repository) *DomainService {
	return &DomainService{orderRepository: orderRepo}
}

// LoadForPrincipal loads an order the principal may act on: its owner or an admin.
func (s *DomainService) LoadForPrincipal(ctx context.Context, orderID string, principal shared.Principal) (*Order, error) {
	order, err := s.orderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin && !order.IsOwnedBy(principal.ID) {
		return nil, NewAccessDeniedError(orderID)
	}
	return order, nil
}
