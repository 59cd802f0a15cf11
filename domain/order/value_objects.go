package order

import (
	"strings"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// Address 收货地址
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (a Address) validate() error {
	required := []struct{ field, value string }{
		{"shippingAddress.street", a.Street},
		{"shippingAddress.city", a.City},
		{"shippingAddress.postalCode", a.PostalCode},
		{"shippingAddress.country", a.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return shared.NewValidationError("order", r.field, r.field+" is required")
		}
	}
	return nil
}

// PaymentResult 支付网关回执，只在支付成功后存在
type PaymentResult struct {
	ID           string
	Status       string
	UpdateTime   time.Time
	EmailAddress string
}

// Prices 订单金额明细，均为非负
type Prices struct {
	Items    shared.Money
	Tax      shared.Money
	Shipping shared.Money
	Total    shared.Money
}

func (p Prices) validate() error {
	amounts := []struct {
		field string
		value shared.Money
	}{
		{"itemsPrice", p.Items},
		{"taxPrice", p.Tax},
		{"shippingPrice", p.Shipping},
		{"totalPrice", p.Total},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return NewValidationError(ErrNegativeAmount, a.field, a.field+" must not be negative")
		}
	}
	return nil
}

// CancellationDetails 订单内嵌的取消摘要，台账才是权威记录
type CancellationDetails struct {
	RequestedAt time.Time
	Reason      string
	Status      cancellation.Status
	AdminNote   string
}

// ReviewFlag 人工复核标记
type ReviewFlag struct {
	NeedsReview bool
	Notes       []string
}
