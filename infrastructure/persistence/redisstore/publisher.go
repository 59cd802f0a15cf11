package redisstore

import (
	"context"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"

	"github.com/go-redis/redis/v8"
)

const DefaultChannelPrefix = "storefront.events."

// Publisher 把 outbox 记录发布到 Redis 频道，载荷为 outbox 信封 JSON
type Publisher struct {
	client *redis.Client
	prefix string
}

func NewPublisher(client *redis.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &Publisher{client: client, prefix: prefix}
}

// Channel 事件类型对应的频道名
func (p *Publisher) Channel(eventType string) string {
	return p.prefix + eventType
}

func (p *Publisher) Publish(ctx context.Context, eventType, aggregateID string, payload []byte) error {
	if err := p.client.Publish(ctx, p.Channel(eventType), payload).Err(); err != nil {
		return fmt.Errorf("publish %s for %s: %w", eventType, aggregateID, err)
	}
	return nil
}

var _ outbox.Publisher = (*Publisher)(nil)
