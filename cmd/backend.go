package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/health"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/mocks"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/mongostore"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/redisstore"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/relational"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/retry"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Catalog 只读目录：商品分类 + 用户资料
type Catalog interface {
	coupon.CategoryResolver
	user.Directory
}

// Backend 按 storage.driver 组装好的一套仓储
type Backend struct {
	Orders        order.Repository
	Cancellations cancellation.Repository
	Coupons       coupon.Repository
	Catalog       Catalog
	UnitOfWork    shared.UnitOfWorkFactory
	Outbox        outbox.Store
	Pingers       map[string]health.Pinger

	redis   *redis.Client
	closers []func(context.Context) error
}

// OpenBackend 连接存储；redis.enabled 时为优惠券加缓存
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Pingers: map[string]health.Pinger{}}

	var err error
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		b.openMemory()
	case config.DriverMongo:
		err = b.openMongo(ctx, cfg)
	case config.DriverMySQL, config.DriverPostgres:
		err = b.openRelational(cfg)
	default:
		err = fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	if cfg.Redis.Enabled {
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		b.redis = client
		b.Coupons = redisstore.NewCouponCache(b.Coupons, client, cfg.Redis.CouponTTL)
		b.Pingers["redis"] = redisstore.NewPinger(client)
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
	}

	logger.Info("Storage backend ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.Bool("coupon_cache", cfg.Redis.Enabled),
	)
	return b, nil
}

func (b *Backend) openMemory() {
	logger.Warn("Using in-memory storage; data is lost on restart")
	store := mocks.NewStore()
	catalog := mocks.NewMockCatalog(store)

	b.Orders = mocks.NewMockOrderRepository(store)
	b.Cancellations = mocks.NewMockCancellationRepository(store)
	b.Coupons = mocks.NewMockCouponRepository(store)
	b.Catalog = catalog
	b.UnitOfWork = mocks.NewMockUnitOfWorkFactory(store)
	b.Outbox = mocks.NewMockOutboxStore(store)
}

func (b *Backend) openMongo(ctx context.Context, cfg *config.Config) error {
	client, err := mongostore.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, client.Disconnect)

	db := client.Database(cfg.Mongo.Database)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	b.Orders = mongostore.NewOrderRepository(db)
	b.Cancellations = mongostore.NewCancellationRepository(db)
	b.Coupons = mongostore.NewCouponRepository(db)
	b.Catalog = mongostore.NewCatalog(db)
	b.UnitOfWork = mongostore.NewUnitOfWorkFactory(client, db, retry.FromAppConfig(cfg))
	b.Outbox = mongostore.NewOutboxRepository(db)
	b.Pingers["mongo"] = mongostore.NewPinger(client)
	return nil
}

func (b *Backend) openRelational(cfg *config.Config) error {
	dbConfig := relational.FromAppConfig(cfg)
	db, err := dbConfig.Connect()
	if err != nil {
		return err
	}
	b.closers = append(b.closers, func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	if cfg.Database.AutoMigrate {
		if err := relational.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	b.Orders = relational.NewOrderRepository(db)
	b.Cancellations = relational.NewCancellationRepository(db)
	b.Coupons = relational.NewCouponRepository(db)
	b.Catalog = relational.NewCatalog(db)
	b.UnitOfWork = relational.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg))
	b.Outbox = relational.NewOutboxRepository(db)
	b.Pingers[cfg.Storage.Driver] = relational.NewPinger(db)
	return nil
}

// Publisher outbox 的投递目标：启用 Redis 时走 pub/sub，否则只记日志
func (b *Backend) Publisher(cfg *config.Config) outbox.Publisher {
	if b.redis != nil {
		return redisstore.NewPublisher(b.redis, cfg.Redis.ChannelPrefix)
	}
	return outbox.LoggingPublisher{}
}

// Close 逆序释放连接
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
