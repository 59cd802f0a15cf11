/*
Package coupon Application Layer - coupon administration and checkout pricing.
Validation never mutates a coupon; Redeem is the only write on the checkout path.
*/
package coupon

import (
	"context"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

const entityName = "coupon"

// ApplicationService coupon use cases
type ApplicationService struct {
	coupons    coupon.Repository
	evaluator  *coupon.Evaluator
	uowFactory shared.UnitOfWorkFactory
	currency   string
	now        func() time.Time
}

func NewApplicationService(
	coupons coupon.Repository,
	categories coupon.CategoryResolver,
	uowFactory shared.UnitOfWorkFactory,
	currency string,
) *ApplicationService {
	if currency == "" {
		currency = "USD"
	}
	return &ApplicationService{
		coupons:    coupons,
		evaluator:  coupon.NewEvaluator(coupons, categories),
		uowFactory: uowFactory,
		currency:   currency,
		now:        time.Now,
	}
}

// Validate prices the cart with the coupon; nothing is written
func (s *ApplicationService) Validate(ctx context.Context, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	items := make([]coupon.CartItem, len(req.CartItems))
	for i, item := range req.CartItems {
		items[i] = coupon.CartItem{
			ProductID: item.Product,
			Price:     shared.MoneyFromFloat(item.Price, s.currency),
			Quantity:  item.Qty,
		}
	}

	eval, err := s.evaluator.Validate(ctx, req.Code, shared.MoneyFromFloat(req.CartTotal, s.currency), items)
	if err != nil {
		return nil, err
	}
	return &ValidateCouponResponse{
		Valid:            eval.Valid,
		Code:             eval.Code,
		DiscountPercent:  eval.DiscountPercent,
		DiscountAmount:   eval.DiscountAmount.Float(),
		EligibleSubtotal: eval.EligibleSubtotal.Float(),
		Message:          eval.Message,
		CategorySpecific: eval.CategorySpecific,
	}, nil
}

func (s *ApplicationService) Create(ctx context.Context, principal shared.Principal, req CouponRequest) (*CouponResponse, error) {
	if err := principal.RequireAdmin(entityName); err != nil {
		return nil, err
	}

	var c *coupon.Coupon
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if c, err = coupon.NewCoupon(s.toDefinition(req)); err != nil {
			return err
		}
		if err := s.coupons.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterNew(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *ApplicationService) List(ctx context.Context, principal shared.Principal) ([]*CouponResponse, error) {
	if err := principal.RequireAdmin(entityName); err != nil {
		return nil, err
	}
	coupons, err := s.coupons.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*CouponResponse, len(coupons))
	for i, c := range coupons {
		out[i] = s.toResponse(c)
	}
	return out, nil
}

func (s *ApplicationService) Get(ctx context.Context, principal shared.Principal, id string) (*CouponResponse, error) {
	if err := principal.RequireAdmin(entityName); err != nil {
		return nil, err
	}
	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *ApplicationService) Update(ctx context.Context, principal shared.Principal, id string, req CouponRequest) (*CouponResponse, error) {
	if err := principal.RequireAdmin(entityName); err != nil {
		return nil, err
	}

	var c *coupon.Coupon
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if c, err = s.coupons.FindByID(ctx, id); err != nil {
			return err
		}
		if err := c.Update(s.toDefinition(req)); err != nil {
			return err
		}
		if err := s.coupons.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterDirty(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *ApplicationService) Delete(ctx context.Context, principal shared.Principal, id string) error {
	if err := principal.RequireAdmin(entityName); err != nil {
		return err
	}
	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		return s.coupons.Remove(ctx, id)
	})
}

// Redeem consumes one use of a still-valid coupon
func (s *ApplicationService) Redeem(ctx context.Context, principal shared.Principal, code string) (*CouponResponse, error) {
	if err := principal.RequireAdmin(entityName); err != nil {
		return nil, err
	}

	var c *coupon.Coupon
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if c, err = s.coupons.FindByCode(ctx, coupon.NormalizeCode(code)); err != nil {
			return err
		}
		if err := c.Redeem(s.now()); err != nil {
			return err
		}
		if err := s.coupons.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterDirty(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *ApplicationService) toDefinition(req CouponRequest) coupon.Definition {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return coupon.Definition{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		MinAmount:       shared.MoneyFromFloat(req.MinAmount, s.currency),
		MaxUses:         req.MaxUses,
		ExpiresAt:       req.ExpiresAt,
		Active:          active,
		Global:          req.IsGlobal,
		Categories:      req.Categories,
	}
}

func (s *ApplicationService) toResponse(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:              c.ID(),
		Code:            c.Code(),
		DiscountPercent: c.DiscountPercent(),
		MinAmount:       c.MinAmount().Float(),
		MaxUses:         c.MaxUses(),
		Uses:            c.Uses(),
		ExpiresAt:       c.ExpiresAt(),
		IsActive:        c.Active(),
		IsGlobal:        c.Global(),
		Categories:      c.Categories(),
		IsValid:         c.IsValid(s.now()),
		CreatedAt:       c.CreatedAt(),
		UpdatedAt:       c.UpdatedAt(),
	}
}
