package cancellation

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// Repository 取消申请台账仓储
type Repository interface {
	// Save 插入或按版本号更新；违反"每单一个 Pending"约束时返回 ErrAlreadyPending
	Save(ctx context.Context, request *Request) error

	// FindPendingByOrderID 无待处理申请时返回 ErrRequestNotFound
	FindPendingByOrderID(ctx context.Context, orderID string) (*Request, error)

	// List 按创建时间倒序
	List(ctx context.Context, spec shared.Specification[*Request]) ([]*Request, error)

	// RemoveByOrderID 订单硬删除时一并清理
	RemoveByOrderID(ctx context.Context, orderID string) error
}
