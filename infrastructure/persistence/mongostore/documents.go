package mongostore

import (
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 金额一律以分存储

type orderItemDoc struct {
	Product string `bson:"product"`
	Name    string `bson:"name"`
	Price   int64  `bson:"priceCents"`
	Qty     int    `bson:"qty"`
	Size    string `bson:"size,omitempty"`
	Image   string `bson:"image,omitempty"`
}

type addressDoc struct {
	Street     string `bson:"address"`
	City       string `bson:"city"`
	State      string `bson:"state,omitempty"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

type paymentResultDoc struct {
	ID           string    `bson:"id"`
	Status       string    `bson:"status"`
	UpdateTime   time.Time `bson:"update_time"`
	EmailAddress string    `bson:"email_address"`
}

type cancellationDetailsDoc struct {
	RequestedAt time.Time `bson:"requestedAt"`
	Reason      string    `bson:"reason"`
	Status      string    `bson:"status"`
	AdminNote   string    `bson:"adminNote,omitempty"`
}

type orderDoc struct {
	ID              string                  `bson:"_id"`
	User            string                  `bson:"user"`
	OrderItems      []orderItemDoc          `bson:"orderItems"`
	ShippingAddress addressDoc              `bson:"shippingAddress"`
	PaymentMethod   string                  `bson:"paymentMethod"`
	PaymentResult   *paymentResultDoc       `bson:"paymentResult,omitempty"`
	Currency        string                  `bson:"currency"`
	ItemsPrice      int64                   `bson:"itemsPriceCents"`
	TaxPrice        int64                   `bson:"taxPriceCents"`
	ShippingPrice   int64                   `bson:"shippingPriceCents"`
	TotalPrice      int64                   `bson:"totalPriceCents"`
	IsPaid          bool                    `bson:"isPaid"`
	PaidAt          *time.Time              `bson:"paidAt,omitempty"`
	Status          string                  `bson:"status"`
	DeliveredAt     *time.Time              `bson:"deliveredAt,omitempty"`
	Cancellation    *cancellationDetailsDoc `bson:"cancellation,omitempty"`
	NeedsReview     bool                    `bson:"needsReview"`
	ReviewNotes     []string                `bson:"reviewNotes,omitempty"`
	Version         int                     `bson:"version"`
	CreatedAt       time.Time               `bson:"createdAt"`
	UpdatedAt       time.Time               `bson:"updatedAt"`
}

func newOrderDoc(o *order.Order) orderDoc {
	dto := o.Snapshot()
	doc := orderDoc{
		ID:   dto.ID,
		User: dto.UserID,
		ShippingAddress: addressDoc{
			Street:     dto.ShippingAddress.Street,
			City:       dto.ShippingAddress.City,
			State:      dto.ShippingAddress.State,
			PostalCode: dto.ShippingAddress.PostalCode,
			Country:    dto.ShippingAddress.Country,
		},
		PaymentMethod: string(dto.PaymentMethod),
		Currency:      dto.Prices.Total.Currency(),
		ItemsPrice:    dto.Prices.Items.Amount(),
		TaxPrice:      dto.Prices.Tax.Amount(),
		ShippingPrice: dto.Prices.Shipping.Amount(),
		TotalPrice:    dto.Prices.Total.Amount(),
		IsPaid:        dto.IsPaid,
		PaidAt:        dto.PaidAt,
		Status:        string(dto.Status),
		DeliveredAt:   dto.DeliveredAt,
		NeedsReview:   dto.Review.NeedsReview,
		ReviewNotes:   dto.Review.Notes,
		Version:       dto.Version,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	}
	doc.OrderItems = make([]orderItemDoc, len(dto.Items))
	for i, item := range dto.Items {
		doc.OrderItems[i] = orderItemDoc{
			Product: item.ProductID(),
			Name:    item.Name(),
			Price:   item.UnitPrice().Amount(),
			Qty:     item.Quantity(),
			Size:    item.Size(),
			Image:   item.Image(),
		}
	}
	if pr := dto.PaymentResult; pr != nil {
		doc.PaymentResult = &paymentResultDoc{ID: pr.ID, Status: pr.Status, UpdateTime: pr.UpdateTime, EmailAddress: pr.EmailAddress}
	}
	if c := dto.Cancellation; c != nil {
		doc.Cancellation = &cancellationDetailsDoc{RequestedAt: c.RequestedAt, Reason: c.Reason, Status: string(c.Status), AdminNote: c.AdminNote}
	}
	return doc
}

func (d orderDoc) toDomain() *order.Order {
	items := make([]order.LineItem, len(d.OrderItems))
	for i, item := range d.OrderItems {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ProductID: item.Product,
			Name:      item.Name,
			UnitPrice: shared.NewMoney(item.Price, d.Currency),
			Quantity:  item.Qty,
			Size:      item.Size,
			Image:     item.Image,
		})
	}
	dto := order.ReconstructionDTO{
		ID:     d.ID,
		UserID: d.User,
		Items:  items,
		ShippingAddress: order.Address{
			Street:     d.ShippingAddress.Street,
			City:       d.ShippingAddress.City,
			State:      d.ShippingAddress.State,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		PaymentMethod: order.PaymentMethod(d.PaymentMethod),
		Prices: order.Prices{
			Items:    shared.NewMoney(d.ItemsPrice, d.Currency),
			Tax:      shared.NewMoney(d.TaxPrice, d.Currency),
			Shipping: shared.NewMoney(d.ShippingPrice, d.Currency),
			Total:    shared.NewMoney(d.TotalPrice, d.Currency),
		},
		IsPaid:      d.IsPaid,
		PaidAt:      d.PaidAt,
		Status:      order.Status(d.Status),
		DeliveredAt: d.DeliveredAt,
		Review:      order.ReviewFlag{NeedsReview: d.NeedsReview, Notes: d.ReviewNotes},
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if pr := d.PaymentResult; pr != nil {
		dto.PaymentResult = &order.PaymentResult{ID: pr.ID, Status: pr.Status, UpdateTime: pr.UpdateTime, EmailAddress: pr.EmailAddress}
	}
	if c := d.Cancellation; c != nil {
		dto.Cancellation = &order.CancellationDetails{
			RequestedAt: c.RequestedAt,
			Reason:      c.Reason,
			Status:      cancellation.Status(c.Status),
			AdminNote:   c.AdminNote,
		}
	}
	return order.RebuildFromDTO(dto)
}

type cancellationDoc struct {
	ID          string     `bson:"_id"`
	Order       string     `bson:"order"`
	User        string     `bson:"user"`
	Reason      string     `bson:"reason"`
	Status      string     `bson:"status"`
	AdminNote   string     `bson:"adminNote,omitempty"`
	ProcessedBy string     `bson:"processedBy,omitempty"`
	ProcessedAt *time.Time `bson:"processedAt,omitempty"`
	Version     int        `bson:"version"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func newCancellationDoc(r *cancellation.Request) cancellationDoc {
	dto := r.Snapshot()
	return cancellationDoc{
		ID:          dto.ID,
		Order:       dto.OrderID,
		User:        dto.UserID,
		Reason:      dto.Reason,
		Status:      string(dto.Status),
		AdminNote:   dto.AdminNote,
		ProcessedBy: dto.ProcessedBy,
		ProcessedAt: dto.ProcessedAt,
		Version:     dto.Version,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
}

func (d cancellationDoc) toDomain() *cancellation.Request {
	return cancellation.RebuildFromDTO(cancellation.ReconstructionDTO{
		ID:          d.ID,
		OrderID:     d.Order,
		UserID:      d.User,
		Reason:      d.Reason,
		Status:      cancellation.Status(d.Status),
		AdminNote:   d.AdminNote,
		ProcessedBy: d.ProcessedBy,
		ProcessedAt: d.ProcessedAt,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	})
}

type couponDoc struct {
	ID              string     `bson:"_id"`
	Code            string     `bson:"code"`
	DiscountPercent float64    `bson:"discountPercent"`
	MinAmount       int64      `bson:"minAmountCents"`
	Currency        string     `bson:"currency"`
	MaxUses         int        `bson:"maxUses"`
	Uses            int        `bson:"uses"`
	ExpiresAt       *time.Time `bson:"expiresAt,omitempty"`
	IsActive        bool       `bson:"isActive"`
	IsGlobal        bool       `bson:"isGlobal"`
	Categories      []string   `bson:"categories"`
	Version         int        `bson:"version"`
	CreatedAt       time.Time  `bson:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
}

func newCouponDoc(c *coupon.Coupon) couponDoc {
	dto := c.Snapshot()
	return couponDoc{
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

func (d couponDoc) toDomain() *coupon.Coupon {
	return coupon.RebuildFromDTO(coupon.ReconstructionDTO{
		ID:              d.ID,
		Code:            d.Code,
		DiscountPercent: d.DiscountPercent,
		MinAmount:       shared.NewMoney(d.MinAmount, d.Currency),
		MaxUses:         d.MaxUses,
		Uses:            d.Uses,
		ExpiresAt:       d.ExpiresAt,
		Active:          d.IsActive,
		Global:          d.IsGlobal,
		Categories:      d.Categories,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	})
}

// productDoc 商品集合由目录服务写入，_id 为 ObjectID
type productDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Category string             `bson:"category"`
}

type userDoc struct {
	ID      primitive.ObjectID `bson:"_id"`
	Name    string             `bson:"name"`
	Email   string             `bson:"email"`
	IsAdmin bool               `bson:"isAdmin"`
}

type outboxDoc struct {
	ID          string    `bson:"_id"`
	AggregateID string    `bson:"aggregateId"`
	EventType   string    `bson:"eventType"`
	Payload     []byte    `bson:"payload"`
	Status      string    `bson:"status"`
	RetryCount  int       `bson:"retryCount"`
	LastError   string    `bson:"lastError,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func newOutboxDoc(r outbox.Record) outboxDoc {
	return outboxDoc{
		ID:          r.ID,
		AggregateID: r.AggregateID,
		EventType:   r.EventType,
		Payload:     r.Payload,
		Status:      string(r.Status),
		RetryCount:  r.RetryCount,
		LastError:   r.LastError,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (d outboxDoc) toRecord() outbox.Record {
	return outbox.Record{
		ID:          d.ID,
		AggregateID: d.AggregateID,
		EventType:   d.EventType,
		Payload:     d.Payload,
		Status:      outbox.Status(d.Status),
		RetryCount:  d.RetryCount,
		LastError:   d.LastError,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// objectIDs 把 24 位十六进制 ID 转为 ObjectID，其余原样保留
func objectIDs(ids []string) []interface{} {
	out := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
			continue
		}
		out = append(out, id)
	}
	return out
}
