package po

import (
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// CouponPO 优惠券
type CouponPO struct {
	ID              string  `gorm:"primaryKey;size:64"`
	Code            string  `gorm:"size:64;uniqueIndex;not null"`
	DiscountPercent float64 `gorm:"not null"`
	MinAmount       int64   `gorm:"not null;default:0"`
	Currency        string  `gorm:"size:3;not null"`
	MaxUses         int     `gorm:"not null;default:0"`
	Uses            int     `gorm:"not null;default:0"`
	ExpiresAt       *time.Time
	IsActive        bool     `gorm:"not null;default:true"`
	IsGlobal        bool     `gorm:"not null;default:false"`
	Categories      []string `gorm:"serializer:json"`
	Version         int      `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName Specify table name
func (CouponPO) TableName() string {
	return "coupons"
}

func FromCouponDomain(c *coupon.Coupon) *CouponPO {
	dto := c.Snapshot()
	return &CouponPO{
		ID:              dto.ID,
		Code:            dto.Code,
		DiscountPercent: dto.DiscountPercent,
		MinAmount:       dto.MinAmount.Amount(),
		Currency:        dto.MinAmount.Currency(),
		MaxUses:         dto.MaxUses,
		Uses:            dto.Uses,
		ExpiresAt:       dto.ExpiresAt,
		IsActive:        dto.Active,
		IsGlobal:        dto.Global,
		Categories:      dto.Categories,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	}
}

func (p *CouponPO) ToDomain() *coupon.Coupon {
	return coupon.RebuildFromDTO(coupon.ReconstructionDTO{
		ID:              p.ID,
		Code:            p.Code,
		DiscountPercent: p.DiscountPercent,
		MinAmount:       shared.NewMoney(p.MinAmount, p.Currency),
		MaxUses:         p.MaxUses,
		Uses:            p.Uses,
		ExpiresAt:       p.ExpiresAt,
		Active:          p.IsActive,
		Global:          p.IsGlobal,
		Categories:      p.Categories,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	})
}
