package po

import (
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID     string `gorm:"primaryKey;size:64"`
	UserID string `gorm:"size:64;index;not null"` // Only store ID, no association with User

	ShipStreet     string `gorm:"size:255;not null"`
	ShipCity       string `gorm:"size:128;not null"`
	ShipState      string `gorm:"size:128"`
	ShipPostalCode string `gorm:"size:32;not null"`
	ShipCountry    string `gorm:"size:64;not null"`

	PaymentMethod     string `gorm:"size:32;not null"`
	PaymentResultID   string `gorm:"size:128"`
	PaymentStatus     string `gorm:"size:64"`
	PaymentUpdateTime *time.Time
	PaymentPayerEmail string `gorm:"size:255"`
	IsPaid            bool   `gorm:"not null;default:false"`
	PaidAt            *time.Time
	Currency          string `gorm:"size:3;not null"`
	ItemsAmount       int64  `gorm:"not null"`
	TaxAmount         int64  `gorm:"not null"`
	ShippingAmount    int64  `gorm:"not null"`
	TotalAmount       int64  `gorm:"not null"`
	Status            string `gorm:"size:20;index;not null"`
	DeliveredAt       *time.Time
	CancelRequestedAt *time.Time
	CancelReason      string    `gorm:"size:1000"`
	CancelStatus      string    `gorm:"size:20"`
	CancelAdminNote   string    `gorm:"size:1000"`
	NeedsReview       bool      `gorm:"index;not null;default:false"`
	ReviewNotes       []string  `gorm:"serializer:json"`
	Version           int       `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	Position  int    `gorm:"not null"`
	ProductID string `gorm:"size:24;index;not null"`
	Name      string `gorm:"size:255;not null"`
	UnitPrice int64  `gorm:"not null"`
	Currency  string `gorm:"size:3;not null"`
	Quantity  int    `gorm:"not null"`
	Size      string `gorm:"size:32"`
	Image     string `gorm:"size:1024"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence object
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	dto := o.Snapshot()
	orderPO := &OrderPO{
		ID:             dto.ID,
		UserID:         dto.UserID,
		ShipStreet:     dto.ShippingAddress.Street,
		ShipCity:       dto.ShippingAddress.City,
		ShipState:      dto.ShippingAddress.State,
		ShipPostalCode: dto.ShippingAddress.PostalCode,
		ShipCountry:    dto.ShippingAddress.Country,
		PaymentMethod:  string(dto.PaymentMethod),
		IsPaid:         dto.IsPaid,
		PaidAt:         dto.PaidAt,
		Currency:       dto.Prices.Total.Currency(),
		ItemsAmount:    dto.Prices.Items.Amount(),
		TaxAmount:      dto.Prices.Tax.Amount(),
		ShippingAmount: dto.Prices.Shipping.Amount(),
		TotalAmount:    dto.Prices.Total.Amount(),
		Status:         string(dto.Status),
		DeliveredAt:    dto.DeliveredAt,
		NeedsReview:    dto.Review.NeedsReview,
		ReviewNotes:    dto.Review.Notes,
		Version:        dto.Version,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}
	if pr := dto.PaymentResult; pr != nil {
		updateTime := pr.UpdateTime
		orderPO.PaymentResultID = pr.ID
		orderPO.PaymentStatus = pr.Status
		orderPO.PaymentUpdateTime = &updateTime
		orderPO.PaymentPayerEmail = pr.EmailAddress
	}
	if c := dto.Cancellation; c != nil {
		requestedAt := c.RequestedAt
		orderPO.CancelRequestedAt = &requestedAt
		orderPO.CancelReason = c.Reason
		orderPO.CancelStatus = string(c.Status)
		orderPO.CancelAdminNote = c.AdminNote
	}

	itemPOs := make([]OrderItemPO, len(dto.Items))
	for i, item := range dto.Items {
		itemPOs[i] = OrderItemPO{
			OrderID:   dto.ID,
			Position:  i,
			ProductID: item.ProductID(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice().Amount(),
			Currency:  item.UnitPrice().Currency(),
			Quantity:  item.Quantity(),
			Size:      item.Size(),
			Image:     item.Image(),
		}
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence object to domain model
// itemPOs 需按 Position 排好序
func (p *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.LineItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ProductID: itemPO.ProductID,
			Name:      itemPO.Name,
			UnitPrice: shared.NewMoney(itemPO.UnitPrice, itemPO.Currency),
			Quantity:  itemPO.Quantity,
			Size:      itemPO.Size,
			Image:     itemPO.Image,
		})
	}

	dto := order.ReconstructionDTO{
		ID:     p.ID,
		UserID: p.UserID,
		Items:  items,
		ShippingAddress: order.Address{
			Street:     p.ShipStreet,
			City:       p.ShipCity,
			State:      p.ShipState,
			PostalCode: p.ShipPostalCode,
			Country:    p.ShipCountry,
		},
		PaymentMethod: order.PaymentMethod(p.PaymentMethod),
		Prices: order.Prices{
			Items:    shared.NewMoney(p.ItemsAmount, p.Currency),
			Tax:      shared.NewMoney(p.TaxAmount, p.Currency),
			Shipping: shared.NewMoney(p.ShippingAmount, p.Currency),
			Total:    shared.NewMoney(p.TotalAmount, p.Currency),
		},
		IsPaid:      p.IsPaid,
		PaidAt:      p.PaidAt,
		Status:      order.Status(p.Status),
		DeliveredAt: p.DeliveredAt,
		Review:      order.ReviewFlag{NeedsReview: p.NeedsReview, Notes: p.ReviewNotes},
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.PaymentResultID != "" {
		result := &order.PaymentResult{
			ID:           p.PaymentResultID,
			Status:       p.PaymentStatus,
			EmailAddress: p.PaymentPayerEmail,
		}
		if p.PaymentUpdateTime != nil {
			result.UpdateTime = *p.PaymentUpdateTime
		}
		dto.PaymentResult = result
	}
	if p.CancelStatus != "" {
		details := &order.CancellationDetails{
			Reason:    p.CancelReason,
			Status:    cancellation.Status(p.CancelStatus),
			AdminNote: p.CancelAdminNote,
		}
		if p.CancelRequestedAt != nil {
			details.RequestedAt = *p.CancelRequestedAt
		}
		dto.Cancellation = details
	}

	return order.RebuildFromDTO(dto)
}
