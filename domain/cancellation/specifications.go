package cancellation

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// ByStatusSpecification filters ledger rows by status
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, r *Request) bool {
	return r.Status() == spec.Status
}

// ByOrderIDSpecification filters ledger rows by order
type ByOrderIDSpecification struct {
	OrderID string
}

func (spec ByOrderIDSpecification) IsSatisfiedBy(_ context.Context, r *Request) bool {
	return r.OrderID() == spec.OrderID
}

func NewByStatusSpecification(status Status) shared.Specification[*Request] {
	return ByStatusSpecification{Status: status}
}

func NewByOrderIDSpecification(orderID string) shared.Specification[*Request] {
	return ByOrderIDSpecification{OrderID: orderID}
}
