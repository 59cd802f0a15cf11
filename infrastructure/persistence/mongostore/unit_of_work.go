package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/retry"

	"go.mongodb.org/mongo-driver/mongo"
)

// UnitOfWork 基于 Mongo 会话事务。仓储直接使用回调中的 SessionContext，
// 驱动会把其中的操作绑定到当前事务。
type UnitOfWork struct {
	client      *mongo.Client
	outbox      *OutboxRepository
	aggregates  []shared.AggregateRoot
	retryConfig retry.Config
}

func NewUnitOfWork(client *mongo.Client, db *mongo.Database, retryConfig retry.Config) *UnitOfWork {
	if retryConfig.RetryPredicate == nil {
		retryConfig.RetryPredicate = IsTransientTransactionError
	}
	return &UnitOfWork{
		client:      client,
		outbox:      NewOutboxRepository(db),
		retryConfig: retryConfig,
	}
}

// Execute 已处于会话事务中时直接执行 fn
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	executeOnce := func(ctx context.Context) error {
		session, err := u.client.StartSession()
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		defer session.EndSession(ctx)

		hookCtx, hooks := shared.WithCommitHooks(ctx)
		_, err = session.WithTransaction(hookCtx, func(sc mongo.SessionContext) (interface{}, error) {
			// 驱动可能重跑回调，每次都从头收集聚合与提交回调
			u.aggregates = u.aggregates[:0]
			hooks.Reset()

			if err := fn(sc); err != nil {
				return nil, err
			}
			for _, agg := range u.aggregates {
				for _, event := range agg.PullEvents() {
					if err := u.outbox.SaveEvent(sc, event); err != nil {
						return nil, err
					}
				}
			}
			return nil, nil
		})
		if err != nil {
			return err
		}
		hooks.Run(ctx)
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// IsTransientTransactionError 带 TransientTransactionError 标签的错误可整体重试
func IsTransientTransactionError(err error) bool {
	var labeled mongo.LabeledError
	if errors.As(err, &labeled) {
		return labeled.HasErrorLabel("TransientTransactionError")
	}
	return false
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)

type UnitOfWorkFactory struct {
	client      *mongo.Client
	db          *mongo.Database
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(client *mongo.Client, db *mongo.Database, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{client: client, db: db, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.client, f.db, f.retryConfig)
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
