package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"
)

func toPlaceOptions(userID, currency string, req CreateOrderRequest) order.PlaceOptions {
	items := make([]order.ItemRequest, len(req.OrderItems))
	for i, item := range req.OrderItems {
		items[i] = order.ItemRequest{
			ProductRef: item.Product,
			Name:       item.Name,
			UnitPrice:  shared.MoneyFromFloat(item.Price, currency),
			Quantity:   item.Qty,
			Size:       item.Size,
			Image:      item.Image,
		}
	}
	return order.PlaceOptions{
		UserID:          userID,
		Items:           items,
		ShippingAddress: toAddress(req.ShippingAddress),
		PaymentMethod:   order.PaymentMethod(req.PaymentMethod),
		Prices: order.Prices{
			Items:    shared.MoneyFromFloat(req.ItemsPrice, currency),
			Tax:      shared.MoneyFromFloat(req.TaxPrice, currency),
			Shipping: shared.MoneyFromFloat(req.ShippingPrice, currency),
			Total:    shared.MoneyFromFloat(req.TotalPrice, currency),
		},
	}
}

func toAddress(a AddressDTO) order.Address {
	return order.Address{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func toPaymentResult(req PayOrderRequest) order.PaymentResult {
	return order.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   parseGatewayTime(req.UpdateTime),
		EmailAddress: req.EmailAddress,
	}
}

var gatewayTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// parseGatewayTime 解析失败返回零值, 由聚合回退到当前时间
func parseGatewayTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range gatewayTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		if secs > 1e12 {
			return time.UnixMilli(secs).UTC()
		}
		return time.Unix(secs, 0).UTC()
	}
	return time.Time{}
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = OrderItemResponse{
			Product:  item.ProductID(),
			Name:     item.Name(),
			Price:    item.UnitPrice().Float(),
			Qty:      item.Quantity(),
			Size:     item.Size(),
			Image:    item.Image(),
			Subtotal: item.Subtotal().Float(),
		}
	}

	addr := o.ShippingAddress()
	prices := o.Prices()
	resp := &OrderResponse{
		ID:         o.ID(),
		User:       o.UserID(),
		OrderItems: items,
		ShippingAddress: AddressDTO{
			Street:     addr.Street,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		PaymentMethod: string(o.PaymentMethod()),
		ItemsPrice:    prices.Items.Float(),
		TaxPrice:      prices.Tax.Float(),
		ShippingPrice: prices.Shipping.Float(),
		TotalPrice:    prices.Total.Float(),
		Currency:      prices.Total.Currency(),
		IsPaid:        o.IsPaid(),
		PaidAt:        o.PaidAt(),
		Status:        string(o.Status()),
		DeliveredAt:   o.DeliveredAt(),
		NeedsReview:   o.Review().NeedsReview,
		ReviewNotes:   o.Review().Notes,
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
	if pr := o.PaymentResult(); pr != nil {
		resp.PaymentResult = &PaymentResultDTO{
			ID:           pr.ID,
			Status:       pr.Status,
			UpdateTime:   pr.UpdateTime,
			EmailAddress: pr.EmailAddress,
		}
	}
	if c := o.Cancellation(); c != nil {
		resp.Cancellation = &CancellationResponse{
			RequestedAt: c.RequestedAt,
			Reason:      c.Reason,
			Status:      string(c.Status),
			AdminNote:   c.AdminNote,
		}
	}
	return resp
}

func toOrderResponses(orders []*order.Order) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

func toUserSummary(id string, profiles map[string]user.Profile) UserSummary {
	p, ok := profiles[id]
	if !ok {
		return UserSummary{ID: id}
	}
	return UserSummary{ID: id, Name: p.Name, Email: p.Email}
}

func toCancellationListItem(r *cancellation.Request, orders map[string]*order.Order, profiles map[string]user.Profile) CancellationListItem {
	item := CancellationListItem{
		ID:          r.ID(),
		OrderID:     r.OrderID(),
		User:        toUserSummary(r.UserID(), profiles),
		Reason:      r.Reason(),
		Status:      string(r.Status()),
		AdminNote:   r.AdminNote(),
		ProcessedAt: r.ProcessedAt(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
	if o, ok := orders[r.OrderID()]; ok {
		item.Order = &OrderSummary{
			ID:         o.ID(),
			Status:     string(o.Status()),
			TotalPrice: o.Prices().Total.Float(),
			IsPaid:     o.IsPaid(),
		}
	}
	if r.ProcessedBy() != "" {
		admin := toUserSummary(r.ProcessedBy(), profiles)
		item.ProcessedBy = &admin
	}
	return item
}
