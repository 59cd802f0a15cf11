package coupon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// CartItem a line of the cart being priced
type CartItem struct {
	ProductID string
	Price     shared.Money
	Quantity  int
}

// Evaluation result of validating a coupon against a cart
type Evaluation struct {
	Code             string
	Valid            bool
	DiscountPercent  float64
	DiscountAmount   shared.Money
	EligibleSubtotal shared.Money
	Message          string
	CategorySpecific bool
}

// Evaluator computes discounts without mutating coupons.
type Evaluator struct {
	coupons    Repository
	categories CategoryResolver
	now        func() time.Time
}

func NewEvaluator(coupons Repository, categories CategoryResolver) *Evaluator {
	return &Evaluator{coupons: coupons, categories: categories, now: time.Now}
}

// WithClock overrides the clock, used by tests around expiry
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	clone := *e
	clone.now = now
	return &clone
}

// Validate looks the coupon up by its uppercased code and prices the cart.
func (e *Evaluator) Validate(ctx context.Context, code string, cartTotal shared.Money, items []CartItem) (*Evaluation, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, shared.NewValidationError(entityName, "code", "coupon code is required")
	}
	if cartTotal.IsNegative() {
		return nil, shared.NewValidationError(entityName, "cartTotal", "cart total must not be negative")
	}

	c, err := e.coupons.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if reason := c.InvalidReason(e.now()); reason != "" {
		return nil, NewCouponUnavailableError(c.Code(), reason)
	}
	if cartTotal.LessThan(c.MinAmount()) {
		return nil, NewMinimumNotMetError(c.MinAmount())
	}

	if !c.IsCategoryRestricted() {
		return &Evaluation{
			Code:             c.Code(),
			Valid:            true,
			DiscountPercent:  c.DiscountPercent(),
			DiscountAmount:   cartTotal.Percent(c.DiscountPercent()),
			EligibleSubtotal: cartTotal,
			Message:          fmt.Sprintf("Coupon applied: %g%% off your order", c.DiscountPercent()),
		}, nil
	}

	eligible, count, err := e.eligibleSubtotal(ctx, c, cartTotal.Currency(), items)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, NewNoEligibleItemsError(c.Categories())
	}

	return &Evaluation{
		Code:             c.Code(),
		Valid:            true,
		DiscountPercent:  c.DiscountPercent(),
		DiscountAmount:   eligible.Percent(c.DiscountPercent()),
		EligibleSubtotal: eligible,
		Message:          fmt.Sprintf("Coupon applied: %g%% off %d eligible item(s)", c.DiscountPercent(), count),
		CategorySpecific: true,
	}, nil
}

func (e *Evaluator) eligibleSubtotal(ctx context.Context, c *Coupon, currency string, items []CartItem) (shared.Money, int, error) {
	total := shared.Zero(currency)
	if len(items) == 0 {
		return total, 0, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = productKey(item.ProductID)
	}
	categories, err := e.categories.CategoriesOf(ctx, ids)
	if err != nil {
		return total, 0, fmt.Errorf("resolve product categories: %w", err)
	}

	count := 0
	for i, item := range items {
		category, ok := categories[ids[i]]
		if !ok || !c.AppliesToCategory(category) || item.Quantity <= 0 {
			continue
		}
		line, err := item.Price.Multiply(item.Quantity)
		if err != nil {
			return total, 0, err
		}
		if total, err = total.Add(line); err != nil {
			return total, 0, err
		}
		count++
	}
	return total, count, nil
}

// productKey 目录按小写 24 位十六进制存储商品 id，其余格式原样查询
func productKey(id string) string {
	id = strings.TrimSpace(id)
	if lower := strings.ToLower(id); order.IsProductRef(lower) {
		return lower
	}
	return id
}
