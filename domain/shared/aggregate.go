package shared

// AggregateRoot 聚合根接口
// 聚合根是一致性边界的入口点：
// 1. 有全局唯一标识
// 2. 维护聚合内部的不变量
// 3. 所有修改必须通过聚合根进行
// 4. 记录领域事件，由 UnitOfWork 收集写入 outbox
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int

	// PullEvents 获取并清空聚合根记录的领域事件
	PullEvents() []DomainEvent
}

// Entity 实体接口
type Entity interface {
	ID() string
}
