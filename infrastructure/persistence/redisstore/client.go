/*
Package redisstore Redis 相关适配

- CouponCache: 按券码读穿缓存，写入/删除时失效
- Publisher: outbox 事件通过 pub/sub 转发，频道为 <prefix><eventType>
- Pinger: 健康检查
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewClient 建立连接并 Ping 一次
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	logger.Info("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}

type Pinger struct {
	client *redis.Client
}

func NewPinger(client *redis.Client) *Pinger { return &Pinger{client: client} }

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
