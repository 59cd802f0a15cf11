package order

import "time"

// CreateOrderRequest 表示创建订单的入参（金额为货币单位的小数）。
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest `json:"orderItems"`
	ShippingAddress AddressDTO         `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required"`
	ItemsPrice      float64            `json:"itemsPrice"`
	TaxPrice        float64            `json:"taxPrice"`
	ShippingPrice   float64            `json:"shippingPrice"`
	TotalPrice      float64            `json:"totalPrice"`
}

// OrderItemRequest 表示创建订单时的单个商品项。
type OrderItemRequest struct {
	Product string  `json:"product"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Qty     int     `json:"qty"`
	Size    string  `json:"size"`
	Image   string  `json:"image"`
}

// AddressDTO 收货地址
type AddressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PayOrderRequest 支付网关回执
type PayOrderRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status"`
	// 网关格式不一, 原样接收后宽松解析
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// UpdateStatusRequest 管理员推进订单状态
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancellationRequestBody 用户发起取消申请 / 直接取消
type CancellationRequestBody struct {
	Reason string `json:"reason"`
}

// ProcessCancellationRequest 管理员处理取消申请
type ProcessCancellationRequest struct {
	Decision  string `json:"decision"`
	AdminNote string `json:"adminNote"`
}

// ListOrdersQuery 管理员订单列表过滤条件
type ListOrdersQuery struct {
	Status      string `form:"status"`
	NeedsReview bool   `form:"needsReview"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
}

// OrderResponse 表示订单返回模型。
type OrderResponse struct {
	ID              string                `json:"id"`
	User            string                `json:"user"`
	OrderItems      []OrderItemResponse   `json:"orderItems"`
	ShippingAddress AddressDTO            `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	PaymentResult   *PaymentResultDTO     `json:"paymentResult,omitempty"`
	ItemsPrice      float64               `json:"itemsPrice"`
	TaxPrice        float64               `json:"taxPrice"`
	ShippingPrice   float64               `json:"shippingPrice"`
	TotalPrice      float64               `json:"totalPrice"`
	Currency        string                `json:"currency"`
	IsPaid          bool                  `json:"isPaid"`
	PaidAt          *time.Time            `json:"paidAt,omitempty"`
	Status          string                `json:"status"`
	DeliveredAt     *time.Time            `json:"deliveredAt,omitempty"`
	Cancellation    *CancellationResponse `json:"cancellation,omitempty"`
	NeedsReview     bool                  `json:"needsReview"`
	ReviewNotes     []string              `json:"reviewNotes,omitempty"`
	Version         int                   `json:"version"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// OrderItemResponse 表示订单项返回模型。
type OrderItemResponse struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Size     string  `json:"size,omitempty"`
	Image    string  `json:"image,omitempty"`
	Subtotal float64 `json:"subtotal"`
}

type PaymentResultDTO struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	UpdateTime   time.Time `json:"update_time"`
	EmailAddress string    `json:"email_address,omitempty"`
}

// CancellationResponse 订单内嵌的取消摘要
type CancellationResponse struct {
	RequestedAt time.Time `json:"requestedAt"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	AdminNote   string    `json:"adminNote,omitempty"`
}

// OrderPageResponse 分页结果
type OrderPageResponse struct {
	Orders   []*OrderResponse `json:"orders"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// CancellationCreatedResponse 取消申请创建结果
type CancellationCreatedResponse struct {
	CancellationID string `json:"cancellationId"`
}

// UserSummary 列表中展示的用户信息；用户不存在时只有 ID
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// OrderSummary 列表中展示的订单信息；订单已删除时为 nil
type OrderSummary struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"totalPrice"`
	IsPaid     bool    `json:"isPaid"`
}

// CancellationListItem 台账行及其关联实体
type CancellationListItem struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"orderId"`
	Order       *OrderSummary `json:"order,omitempty"`
	User        UserSummary   `json:"user"`
	Reason      string        `json:"reason"`
	Status      string        `json:"status"`
	AdminNote   string        `json:"adminNote,omitempty"`
	ProcessedBy *UserSummary  `json:"processedBy"`
	ProcessedAt *time.Time    `json:"processedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
