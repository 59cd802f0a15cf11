package coupon

import "time"

// ValidateCouponRequest 结算页校验优惠码
type ValidateCouponRequest struct {
	Code      string        `json:"code" binding:"required"`
	CartTotal float64       `json:"cartTotal"`
	CartItems []CartItemDTO `json:"cartItems"`
}

type CartItemDTO struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
	Qty     int     `json:"qty"`
}

// ValidateCouponResponse 折扣计算结果
type ValidateCouponResponse struct {
	Valid            bool    `json:"valid"`
	Code             string  `json:"code"`
	DiscountPercent  float64 `json:"discountPercent"`
	DiscountAmount   float64 `json:"discountAmount"`
	EligibleSubtotal float64 `json:"eligibleSubtotal"`
	Message          string  `json:"message"`
	CategorySpecific bool    `json:"categorySpecific"`
}

// CouponRequest 管理员创建 / 更新优惠券
type CouponRequest struct {
	Code            string     `json:"code" binding:"required"`
	DiscountPercent float64    `json:"discountPercent"`
	MinAmount       float64    `json:"minAmount"`
	MaxUses         int        `json:"maxUses"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	IsActive        *bool      `json:"isActive"`
	IsGlobal        bool       `json:"isGlobal"`
	Categories      []string   `json:"categories"`
}

type CouponResponse struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent float64    `json:"discountPercent"`
	MinAmount       float64    `json:"minAmount"`
	MaxUses         int        `json:"maxUses"`
	Uses            int        `json:"uses"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	IsActive        bool       `json:"isActive"`
	IsGlobal        bool       `json:"isGlobal"`
	Categories      []string   `json:"categories"`
	IsValid         bool       `json:"isValid"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
