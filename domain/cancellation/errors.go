/*
Package cancellation - 取消申请台账领域错误

具体哨兵错误挂在 shared.DomainError.Cause 上，
通用分类（冲突、未找到、校验失败）挂在 Err 上。
*/
package cancellation

import (
	"errors"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

var (
	// ErrRequestNotFound 订单没有待处理的取消申请
	ErrRequestNotFound = errors.New("cancellation request not found")

	// ErrAlreadyPending 同一订单已存在待处理的取消申请
	ErrAlreadyPending = errors.New("a cancellation request is already pending for this order")

	// ErrAlreadyDecided 申请已被处理，不能再次决策
	ErrAlreadyDecided = errors.New("cancellation request has already been decided")

	// ErrConcurrentModification 台账行被其他事务修改（乐观锁）
	ErrConcurrentModification = errors.New("cancellation request was modified by another transaction, please retry")

	// ErrInvalidDecision 决策只能是 Approved 或 Rejected
	ErrInvalidDecision = errors.New("decision must be Approved or Rejected")

	// ErrReasonRequired 申请原因必填
	ErrReasonRequired = errors.New("cancellation reason is required")
)

const entityName = "cancellation_request"

func NewRequestNotFoundError(orderID string) error {
	return shared.NewError(shared.ErrNotFound, ErrRequestNotFound, entityName, "",
		"no pending cancellation request for order "+orderID, 1)
}

// NewAlreadyPendingError 仓储在唯一约束冲突时也返回此错误
func NewAlreadyPendingError(orderID string) error {
	return shared.NewError(shared.ErrConflict, ErrAlreadyPending, entityName, "",
		"cancellation request already pending for order "+orderID, 1)
}

func NewAlreadyDecidedError(requestID string, status Status) error {
	return shared.NewError(shared.ErrConflict, ErrAlreadyDecided, entityName, "status",
		"cancellation request "+requestID+" is already "+string(status), 1)
}

func NewConcurrentModificationError(requestID string) error {
	return shared.NewError(shared.ErrConflict, ErrConcurrentModification, entityName, "",
		"cancellation request "+requestID+" was modified by another transaction, please retry", 1)
}

func NewInvalidDecisionError(value string) error {
	return shared.NewError(shared.ErrInvalidInput, ErrInvalidDecision, entityName, "decision",
		"decision must be Approved or Rejected, got "+quote(value), 1)
}

func NewReasonRequiredError() error {
	return shared.NewError(shared.ErrInvalidInput, ErrReasonRequired, entityName, "reason",
		"cancellation reason is required", 1)
}

func quote(s string) string { return "\"" + s + "\"" }
