package shared

import "context"

// UnitOfWork 管理事务边界与聚合事件收集。
// Execute 内通过 ctx 传递事务句柄，仓储从 ctx 中取出；
// 注册过的聚合在提交前被拉取事件写入 outbox。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory 每个请求创建独立的 UnitOfWork（UoW 有状态，不可共享）
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository 在同一事务内保存领域事件
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
