package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeTooManyRequest   ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// 业务错误码
	CodeOrderNotFound        ErrorCode = "ORDER_NOT_FOUND"
	CodeInvalidOrderState    ErrorCode = "INVALID_ORDER_STATE"
	CodeConcurrentModify     ErrorCode = "CONCURRENT_MODIFICATION"
	CodeCancellationPending  ErrorCode = "CANCELLATION_ALREADY_PENDING"
	CodeCancellationNotFound ErrorCode = "CANCELLATION_NOT_FOUND"
	CodeCouponNotFound       ErrorCode = "COUPON_NOT_FOUND"
	CodeCouponUnavailable    ErrorCode = "COUPON_UNAVAILABLE"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeInvalidOperation, CodeCouponUnavailable:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeOrderNotFound, CodeCancellationNotFound, CodeCouponNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidOrderState, CodeConcurrentModify, CodeCancellationPending:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError   { return New(CodeBadRequest, message) }
func NotFound(message string) *AppError     { return New(CodeNotFound, message) }
func Internal(message string) *AppError     { return New(CodeInternal, message) }
func Unauthorized(message string) *AppError { return New(CodeUnauthorized, message) }
func Forbidden(message string) *AppError    { return New(CodeForbidden, message) }
func Conflict(message string) *AppError     { return New(CodeConflict, message) }
func Validation(message string) *AppError   { return New(CodeValidation, message) }

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
// 先匹配具体业务哨兵错误，再按通用分类兜底，最后归为内部错误
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return Wrap(err, CodeOrderNotFound, msg)
	case errors.Is(err, order.ErrConcurrentModification),
		errors.Is(err, cancellation.ErrConcurrentModification),
		errors.Is(err, coupon.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModify, msg)
	case errors.Is(err, order.ErrInvalidOrderStateTransition):
		return Wrap(err, CodeInvalidOrderState, msg)
	case errors.Is(err, cancellation.ErrAlreadyPending):
		return Wrap(err, CodeCancellationPending, msg)
	case errors.Is(err, cancellation.ErrRequestNotFound):
		return Wrap(err, CodeCancellationNotFound, msg)
	case errors.Is(err, coupon.ErrCouponNotFound):
		return Wrap(err, CodeCouponNotFound, msg)
	case errors.Is(err, coupon.ErrCouponUnavailable):
		return Wrap(err, CodeCouponUnavailable, msg)

	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, msg)
	case errors.Is(err, shared.ErrUnauthorized):
		return Wrap(err, CodeUnauthorized, msg)
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, msg)
	case errors.Is(err, shared.ErrInvalidOperation):
		return Wrap(err, CodeInvalidOperation, msg)
	}

	return Wrap(err, CodeInternal, "internal server error")
}
