/*
Package order - 订单领域错误定义

设计原则:
1. 使用哨兵错误(sentinel errors)支持 errors.Is() 类型安全判断
2. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
3. 每个错误同时携带具体哨兵与 shared 通用分类，两者都能被 errors.Is() 命中
4. 不包含 HTTP 状态码等非领域概念

堆栈捕获:
- NewXxxError 构造函数内部调用 shared.CaptureStack(3)
- skip=3 跳过：runtime.Callers, CaptureStack, NewXxxError
*/
package order

import (
	"errors"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// ============================================================================
// 订单领域哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification 并发修改冲突（乐观锁），调用方可重试
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")

	// ErrInvalidOrderStateTransition 状态转换不在转换表内
	ErrInvalidOrderStateTransition = errors.New("invalid order state transition")

	// ErrEmptyOrderItems 订单项为空
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrInvalidQuantity 无效的订单项数量
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNegativeAmount 价格不能为负
	ErrNegativeAmount = errors.New("amounts must not be negative")

	// ErrInvalidProductRef 商品引用为空
	ErrInvalidProductRef = errors.New("product reference is required")

	// ErrUnknownPaymentMethod 未知支付方式
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrUnknownStatus 未知订单状态
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrAlreadyPaid 订单已支付
	ErrAlreadyPaid = errors.New("order is already paid")

	// ErrOrderCancelled 订单已取消，不再接受写操作
	ErrOrderCancelled = errors.New("order is cancelled")

	// ErrNotCashOnDelivery 货到付款确认只适用于货到付款订单
	ErrNotCashOnDelivery = errors.New("order is not cash on delivery")

	// ErrCancelThroughStatus 取消必须走取消流程，不能直接改状态
	ErrCancelThroughStatus = errors.New("use the cancellation operations to cancel an order")
)

// ============================================================================
// 订单领域错误构造函数
// ============================================================================

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
// 返回的错误支持:
//   - errors.Is(err, ErrOrderNotFound)
//   - errors.Is(err, shared.ErrNotFound)
//   - err.(shared.Stacker).Stack() 获取堆栈
func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		kind:     shared.ErrNotFound,
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建并发修改错误
func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		kind:     shared.ErrConflict,
		message:  "order " + orderID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidOrderStateError 创建无效状态转换错误
func NewInvalidOrderStateError(current, target Status) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrderStateTransition,
		kind:     shared.ErrConflict,
		field:    "status",
		message:  fmt.Sprintf("cannot transition order from %s to %s", current, target),
		stack:    shared.CaptureStack(3),
	}
}

// NewValidationError 订单输入校验失败
func NewValidationError(sentinel error, field, message string) error {
	return &orderDomainError{
		sentinel: sentinel,
		kind:     shared.ErrInvalidInput,
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

func NewAlreadyPaidError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrAlreadyPaid,
		kind:     shared.ErrConflict,
		field:    "isPaid",
		message:  "order " + orderID + " is already paid",
		stack:    shared.CaptureStack(3),
	}
}

func NewOrderCancelledError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderCancelled,
		kind:     shared.ErrConflict,
		field:    "status",
		message:  "order " + orderID + " is cancelled",
		stack:    shared.CaptureStack(3),
	}
}

func NewNotCashOnDeliveryError(method PaymentMethod) error {
	return &orderDomainError{
		sentinel: ErrNotCashOnDelivery,
		kind:     shared.ErrInvalidOperation,
		field:    "paymentMethod",
		message:  "order is paid by " + string(method) + ", not cash on delivery",
		stack:    shared.CaptureStack(3),
	}
}

func NewCancelThroughStatusError() error {
	return &orderDomainError{
		sentinel: ErrCancelThroughStatus,
		kind:     shared.ErrInvalidOperation,
		field:    "status",
		message:  "orders cannot be cancelled by a status update; use PUT /orders/:id/cancel or PUT /orders/:id/cancel-process",
		stack:    shared.CaptureStack(3),
	}
}

// NewAccessDeniedError 非本人且非管理员
func NewAccessDeniedError(orderID string) error {
	return &orderDomainError{
		sentinel: shared.ErrForbidden,
		kind:     shared.ErrForbidden,
		message:  "not authorized to access order " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// ============================================================================
// 订单领域错误结构体（内部使用）
// ============================================================================

type orderDomainError struct {
	sentinel error     // 具体哨兵错误
	kind     error     // shared 通用分类
	field    string    // 字段名（可选）
	message  string    // 错误消息
	stack    []uintptr // 调用栈
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() []error {
	if e.sentinel == e.kind {
		return []error{e.sentinel}
	}
	return []error{e.sentinel, e.kind}
}

// Field 发生错误的字段（可能为空）
func (e *orderDomainError) Field() string {
	return e.field
}

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
