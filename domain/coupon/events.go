package coupon

import "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

type RedeemedEvent struct {
	shared.EventMeta
	Code string `json:"code"`
	Uses int    `json:"uses"`
}

func NewRedeemedEvent(couponID, code string, uses int) *RedeemedEvent {
	return &RedeemedEvent{EventMeta: shared.NewEventMeta(couponID), Code: code, Uses: uses}
}

func (e *RedeemedEvent) EventName() string { return "coupon.redeemed" }
