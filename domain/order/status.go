package order

import "strings"

// Status 订单状态（封闭枚举）
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// transitions 状态转换表；表外的转换一律拒绝
var transitions = map[Status][]Status{
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
}

var allStatuses = []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus 忽略大小写解析状态
func ParseStatus(value string) (Status, error) {
	for _, s := range allStatuses {
		if strings.EqualFold(strings.TrimSpace(value), string(s)) {
			return s, nil
		}
	}
	return "", NewValidationError(ErrUnknownStatus, "status", "unknown order status \""+value+"\"")
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsCancellable Delivered 与 Cancelled 不可再取消
func (s Status) IsCancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

func (s Status) String() string { return string(s) }

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "Card"
	PaymentWallet         PaymentMethod = "Wallet"
	PaymentCashOnDelivery PaymentMethod = "CashOnDelivery"
)

var paymentAliases = map[string]PaymentMethod{
	"card":             PaymentCard,
	"stripe":           PaymentCard,
	"wallet":           PaymentWallet,
	"paypal":           PaymentWallet,
	"cashondelivery":   PaymentCashOnDelivery,
	"cash on delivery": PaymentCashOnDelivery,
	"cod":              PaymentCashOnDelivery,
}

// ParsePaymentMethod 接受规范名称与常见网关别名
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	if m, ok := paymentAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", NewValidationError(ErrUnknownPaymentMethod, "paymentMethod", "unknown payment method \""+value+"\"")
}
