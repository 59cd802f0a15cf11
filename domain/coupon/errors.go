package coupon

import (
	"errors"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

var (
	ErrCouponNotFound         = errors.New("coupon not found")
	ErrCouponUnavailable      = errors.New("coupon is not valid")
	ErrMinimumNotMet          = errors.New("cart total below coupon minimum")
	ErrNoEligibleItems        = errors.New("no cart items eligible for coupon")
	ErrDuplicateCode          = errors.New("coupon code already exists")
	ErrConcurrentModification = errors.New("coupon was modified by another transaction, please retry")
	ErrInvalidCoupon          = errors.New("invalid coupon definition")
)

const entityName = "coupon"

func NewCouponNotFoundError(code string) error {
	return shared.NewError(shared.ErrNotFound, ErrCouponNotFound, entityName, "code", "coupon "+code+" not found", 1)
}

// NewCouponUnavailableError reason is one of the Reason* constants
func NewCouponUnavailableError(code, reason string) error {
	return shared.NewError(shared.ErrInvalidOperation, ErrCouponUnavailable, entityName, "code",
		fmt.Sprintf("coupon %s is %s", code, reason), 1)
}

func NewMinimumNotMetError(minimum shared.Money) error {
	return shared.NewError(shared.ErrInvalidInput, ErrMinimumNotMet, entityName, "cartTotal",
		fmt.Sprintf("minimum cart amount of %.2f required", minimum.Float()), 1)
}

func NewNoEligibleItemsError(categories []string) error {
	return shared.NewError(shared.ErrInvalidInput, ErrNoEligibleItems, entityName, "cartItems",
		fmt.Sprintf("coupon only applies to categories %v", categories), 1)
}

func NewDuplicateCodeError(code string) error {
	return shared.NewError(shared.ErrConflict, ErrDuplicateCode, entityName, "code", "coupon code "+code+" already exists", 1)
}

func NewConcurrentModificationError(id string) error {
	return shared.NewError(shared.ErrConflict, ErrConcurrentModification, entityName, "",
		"coupon "+id+" was modified by another transaction, please retry", 1)
}

func newInvalidCouponError(field, message string) error {
	return shared.NewError(shared.ErrInvalidInput, ErrInvalidCoupon, entityName, field, message, 1)
}
