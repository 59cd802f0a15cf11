/*
Package mongostore MongoDB 持久化实现

集合: orders, cancellation_requests, coupons, products, users, outbox_events
- 台账 order 字段上的唯一部分索引（status = Pending）保证每单最多一个待处理申请
- 多文档写入通过会话事务完成，要求副本集部署
- products 与 users 由外部系统维护，这里只读
*/
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	ordersCollection        = "orders"
	cancellationsCollection = "cancellation_requests"
	couponsCollection       = "coupons"
	productsCollection      = "products"
	usersCollection         = "users"
	outboxCollection        = "outbox_events"
)

// Connect 建立客户端并确认主节点可达
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMonitor(logger.NewMongoCommandMonitor(cfg.SlowThreshold))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Mongo connected", zap.String("database", cfg.Database))
	return client, nil
}

// EnsureIndexes 幂等创建索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ordersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		cancellationsCollection: {
			{
				Keys: bson.D{{Key: "order", Value: 1}},
				Options: options.Index().
					SetName("uk_pending_per_order").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "Pending"}),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		couponsCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		outboxCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// Pinger 健康检查适配
type Pinger struct {
	client *mongo.Client
}

func NewPinger(client *mongo.Client) *Pinger { return &Pinger{client: client} }

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
