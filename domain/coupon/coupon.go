/*
Package coupon models discount codes and the stateless evaluator that
computes a discount for a cart.
*/
package coupon

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/google/uuid"
)

// Reasons a coupon is not currently valid, checked in this order.
const (
	ReasonInactive     = "inactive"
	ReasonExpired      = "expired"
	ReasonUsageReached = "usage limit reached"
)

// Coupon aggregate root
type Coupon struct {
	id              string
	code            string
	discountPercent float64
	minAmount       shared.Money
	maxUses         int // 0 = unlimited
	uses            int
	expiresAt       *time.Time
	active          bool
	global          bool
	categories      []string
	version         int
	createdAt       time.Time
	updatedAt       time.Time

	events []shared.DomainEvent
	isNew  bool
}

// Definition the admin-editable attributes of a coupon
type Definition struct {
	Code            string
	DiscountPercent float64
	MinAmount       shared.Money
	MaxUses         int
	ExpiresAt       *time.Time
	Active          bool
	Global          bool
	Categories      []string
}

// NormalizeCode codes are stored and looked up uppercase
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func NewCoupon(def Definition) (*Coupon, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate coupon ID: %w", err)
	}
	now := time.Now().UTC()
	c := &Coupon{id: id.String(), createdAt: now, isNew: true}
	c.apply(def, now)
	return c, nil
}

// Update replaces the definition; uses are kept
func (c *Coupon) Update(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	c.apply(def, time.Now().UTC())
	return nil
}

func (c *Coupon) apply(def Definition, now time.Time) {
	c.code = NormalizeCode(def.Code)
	c.discountPercent = def.DiscountPercent
	c.minAmount = def.MinAmount
	c.maxUses = def.MaxUses
	c.expiresAt = def.ExpiresAt
	c.active = def.Active
	c.global = def.Global
	c.categories = normalizeCategories(def.Categories)
	c.updatedAt = now
}

func (d Definition) validate() error {
	if NormalizeCode(d.Code) == "" {
		return newInvalidCouponError("code", "coupon code is required")
	}
	if d.DiscountPercent < 0 || d.DiscountPercent > 100 {
		return newInvalidCouponError("discountPercent", "discount percentage must be between 0 and 100")
	}
	if d.MinAmount.IsNegative() {
		return newInvalidCouponError("minAmount", "minimum amount must not be negative")
	}
	if d.MaxUses < 0 {
		return newInvalidCouponError("maxUses", "max uses must not be negative")
	}
	return nil
}

func normalizeCategories(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// InvalidReason returns "" when the coupon is valid at now
func (c *Coupon) InvalidReason(now time.Time) string {
	switch {
	case !c.active:
		return ReasonInactive
	case c.expiresAt != nil && !c.expiresAt.After(now):
		return ReasonExpired
	case c.maxUses > 0 && c.uses >= c.maxUses:
		return ReasonUsageReached
	}
	return ""
}

// IsValid active, not expired, and under its usage limit
func (c *Coupon) IsValid(now time.Time) bool {
	return c.InvalidReason(now) == ""
}

// IsCategoryRestricted non-global coupons with categories only discount matching items
func (c *Coupon) IsCategoryRestricted() bool {
	return !c.global && len(c.categories) > 0
}

// AppliesToCategory case-insensitive match
func (c *Coupon) AppliesToCategory(category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, allowed := range c.categories {
		if allowed == category {
			return true
		}
	}
	return false
}

// Redeem consumes one use at checkout commit time
func (c *Coupon) Redeem(now time.Time) error {
	if reason := c.InvalidReason(now); reason != "" {
		return NewCouponUnavailableError(c.code, reason)
	}
	c.uses++
	c.updatedAt = now
	c.events = append(c.events, NewRedeemedEvent(c.id, c.code, c.uses))
	return nil
}

// ReconstructionDTO 仅供仓储层使用
type ReconstructionDTO struct {
	ID              string
	Code            string
	DiscountPercent float64
	MinAmount       shared.Money
	MaxUses         int
	Uses            int
	ExpiresAt       *time.Time
	Active          bool
	Global          bool
	Categories      []string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Coupon {
	return &Coupon{
		id:              dto.ID,
		code:            dto.Code,
		discountPercent: dto.DiscountPercent,
		minAmount:       dto.MinAmount,
		maxUses:         dto.MaxUses,
		uses:            dto.Uses,
		expiresAt:       dto.ExpiresAt,
		active:          dto.Active,
		global:          dto.Global,
		categories:      dto.Categories,
		version:         dto.Version,
		createdAt:       dto.CreatedAt,
		updatedAt:       dto.UpdatedAt,
	}
}

// Snapshot exports the aggregate state for persistence adapters
func (c *Coupon) Snapshot() ReconstructionDTO {
	return ReconstructionDTO{
		ID:              c.id,
		Code:            c.code,
		DiscountPercent: c.discountPercent,
		MinAmount:       c.minAmount,
		MaxUses:         c.maxUses,
		Uses:            c.uses,
		ExpiresAt:       c.expiresAt,
		Active:          c.active,
		Global:          c.global,
		Categories:      c.Categories(),
		Version:         c.version,
		CreatedAt:       c.createdAt,
		UpdatedAt:       c.updatedAt,
	}
}

func (c *Coupon) ID() string               { return c.id }
func (c *Coupon) Code() string             { return c.code }
func (c *Coupon) DiscountPercent() float64 { return c.discountPercent }
func (c *Coupon) MinAmount() shared.Money  { return c.minAmount }
func (c *Coupon) MaxUses() int             { return c.maxUses }
func (c *Coupon) Uses() int                { return c.uses }
func (c *Coupon) ExpiresAt() *time.Time    { return c.expiresAt }
func (c *Coupon) Active() bool             { return c.active }
func (c *Coupon) Global() bool             { return c.global }
func (c *Coupon) Version() int             { return c.version }
func (c *Coupon) CreatedAt() time.Time     { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time     { return c.updatedAt }
func (c *Coupon) IsNew() bool              { return c.isNew }

func (c *Coupon) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// MarkPersisted 仓储保存成功后调用
func (c *Coupon) MarkPersisted() {
	if !c.isNew {
		c.version++
	}
	c.isNew = false
}

func (c *Coupon) PullEvents() []shared.DomainEvent {
	events := c.events
	c.events = nil
	return events
}

var _ shared.AggregateRoot = (*Coupon)(nil)
