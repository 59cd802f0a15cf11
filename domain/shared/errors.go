/*
Package shared - 领域层共享错误定义

设计原则:
1. 领域层定义哨兵错误(sentinel errors)，用于 errors.Is() 类型安全判断
2. DomainError 在创建时捕获堆栈，但延迟格式化（按需打印）
3. 领域错误不包含 HTTP 状态码等传输层概念
4. 子领域的具体哨兵错误（如 cancellation.ErrAlreadyPending）挂在 Cause 上，
   通用分类（如 ErrConflict）挂在 Err 上，两者都能被 errors.Is() 命中
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// 哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 请求合法但与当前状态冲突（状态机、唯一约束、并发修改）
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput 无效输入（参数校验失败）
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized 未认证
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden 禁止访问（已认证但无权限）
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidOperation 操作不适用于该记录的配置（如非货到付款订单走货到付款确认）
	ErrInvalidOperation = errors.New("invalid operation")
)

// ============================================================================
// 领域错误结构体 (Domain Error)
// ============================================================================

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 通用分类哨兵错误
	Err error

	// Cause 可选：子领域的具体哨兵错误
	Cause error

	// Entity 发生错误的实体名称（如 "order", "coupon"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：发生错误的字段名（用于校验错误）
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap 同时暴露分类与具体原因
func (e *DomainError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Cause, e.Err}
}

// Stack 按需格式化堆栈（只在打印日志时调用）
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// ============================================================================
// 堆栈捕获辅助函数
// ============================================================================

// CaptureStack 捕获当前调用栈（导出供子领域包使用）
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧为字符串切片，过滤 runtime 内部帧，最多 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// 领域错误构造函数
// ============================================================================

// NewError 供子领域包构造带具体原因的错误；skip 为调用方相对 NewError 的额外层数
func NewError(kind, cause error, entity, field, message string, skip int) error {
	return &DomainError{
		Err:     kind,
		Cause:   cause,
		Entity:  entity,
		Field:   field,
		Message: message,
		stack:   CaptureStack(3 + skip),
	}
}

func NewNotFoundError(entity string) error {
	return NewError(ErrNotFound, nil, entity, "", entity+" not found", 1)
}

func NewConflictError(entity, message string) error {
	return NewError(ErrConflict, nil, entity, "", message, 1)
}

func NewValidationError(entity, field, reason string) error {
	return NewError(ErrInvalidInput, nil, entity, field, reason, 1)
}

func NewForbiddenError(entity, reason string) error {
	return NewError(ErrForbidden, nil, entity, "", reason, 1)
}

func NewUnauthorizedError(reason string) error {
	return NewError(ErrUnauthorized, nil, "principal", "", reason, 1)
}

func NewInvalidOperationError(entity, reason string) error {
	return NewError(ErrInvalidOperation, nil, entity, "", reason, 1)
}

// Stacker 可提供堆栈的错误接口，API 层统一提取堆栈
type Stacker interface {
	Stack() []string
}
