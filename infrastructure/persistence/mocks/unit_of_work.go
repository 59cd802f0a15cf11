package mocks

import (
	"context"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// MockUnitOfWork runs fn against a private snapshot of the store and swaps it in on success.
// Events of registered aggregates are written to the outbox inside the same snapshot.
type MockUnitOfWork struct {
	store      *Store
	outbox     shared.OutboxRepository
	aggregates []shared.AggregateRoot
}

// NewMockUnitOfWork creates a new MockUnitOfWork instance
func NewMockUnitOfWork(store *Store) *MockUnitOfWork {
	return &MockUnitOfWork{
		store:      store,
		outbox:     NewMockOutboxStore(store),
		aggregates: make([]shared.AggregateRoot, 0),
	}
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	// 嵌套调用复用外层事务
	if txState(ctx) != nil {
		return fn(ctx)
	}

	hookCtx, hooks := shared.WithCommitHooks(ctx)
	if err := u.executeLocked(hookCtx, fn); err != nil {
		return err
	}
	// 释放写锁后再执行提交回调
	hooks.Run(ctx)
	return nil
}

func (u *MockUnitOfWork) executeLocked(ctx context.Context, fn func(ctx context.Context) error) error {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()

	u.aggregates = make([]shared.AggregateRoot, 0)
	txCtx, st := u.store.begin(ctx)

	if err := fn(txCtx); err != nil {
		return err
	}

	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			if err := u.outbox.SaveEvent(txCtx, event); err != nil {
				return fmt.Errorf("failed to save event %s to outbox: %w", event.EventName(), err)
			}
		}
	}

	u.store.commit(st)
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// MockUnitOfWorkFactory hands out one unit of work per call
type MockUnitOfWorkFactory struct {
	store *Store
}

func NewMockUnitOfWorkFactory(store *Store) *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{store: store}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return NewMockUnitOfWork(f.store)
}

var (
	_ shared.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
)
