package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	DefaultCouponTTL = 5 * time.Minute

	codeKeyPrefix = "coupon:code:"
	idKeyPrefix   = "coupon:id:" // id -> 当前券码，用于改码后的失效
)

// cachedCoupon 缓存载荷，金额以分存储
type cachedCoupon struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent float64    `json:"discountPercent"`
	MinAmount       int64      `json:"minAmountCents"`
	Currency        string     `json:"currency"`
	MaxUses         int        `json:"maxUses"`
	Uses            int        `json:"uses"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Active          bool       `json:"isActive"`
	Global          bool       `json:"isGlobal"`
	Categories      []string   `json:"categories"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func newCachedCoupon(c *coupon.Coupon) cachedCoupon {
	dto := c.Snapshot()
	return cachedCoupon{
		ID:              dto.ID,
		Code:            dto.Code,
		DiscountPercent: dto.DiscountPercent,
		MinAmount:       dto.MinAmount.Amount(),
		Currency:        dto.MinAmount.Currency(),
		MaxUses:         dto.MaxUses,
		Uses:            dto.Uses,
		ExpiresAt:       dto.ExpiresAt,
		Active:          dto.Active,
		Global:          dto.Global,
		Categories:      dto.Categories,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	}
}

func (c cachedCoupon) toDomain() *coupon.Coupon {
	return coupon.RebuildFromDTO(coupon.ReconstructionDTO{
		ID:              c.ID,
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		MinAmount:       shared.NewMoney(c.MinAmount, c.Currency),
		MaxUses:         c.MaxUses,
		Uses:            c.Uses,
		ExpiresAt:       c.ExpiresAt,
		Active:          c.Active,
		Global:          c.Global,
		Categories:      c.Categories,
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	})
}

// CouponCache 装饰 coupon.Repository，只缓存 FindByCode。
// Redis 故障时降级为直接读底层仓储。
type CouponCache struct {
	inner  coupon.Repository
	client *redis.Client
	ttl    time.Duration
}

func NewCouponCache(inner coupon.Repository, client *redis.Client, ttl time.Duration) *CouponCache {
	if ttl <= 0 {
		ttl = DefaultCouponTTL
	}
	return &CouponCache{inner: inner, client: client, ttl: ttl}
}

func (c *CouponCache) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	data, err := c.client.Get(ctx, codeKeyPrefix+code).Bytes()
	if err == nil {
		var cached cachedCoupon
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			return cached.toDomain(), nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.FromContext(ctx).Warn("Coupon cache read failed", zap.String("code", code), zap.Error(err))
	}

	found, err := c.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	c.store(ctx, found)
	return found, nil
}

func (c *CouponCache) store(ctx context.Context, cp *coupon.Coupon) {
	data, err := json.Marshal(newCachedCoupon(cp))
	if err != nil {
		return
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKeyPrefix+cp.Code(), data, c.ttl)
		pipe.Set(ctx, idKeyPrefix+cp.ID(), cp.Code(), c.ttl)
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn("Coupon cache write failed", zap.String("code", cp.Code()), zap.Error(err))
	}
}

// invalidate 删除 id 对应的旧码以及给定的码
func (c *CouponCache) invalidate(ctx context.Context, id string, codes ...string) {
	keys := []string{idKeyPrefix + id}
	if previous, err := c.client.Get(ctx, idKeyPrefix+id).Result(); err == nil {
		keys = append(keys, codeKeyPrefix+previous)
	}
	for _, code := range codes {
		keys = append(keys, codeKeyPrefix+code)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromContext(ctx).Warn("Coupon cache invalidation failed", zap.String("coupon_id", id), zap.Error(err))
	}
}

// Save 无论成功与否都失效，冲突重试时能读到最新版本。
// 提交前的并发读可能把旧值写回缓存，所以提交后再失效一次。
func (c *CouponCache) Save(ctx context.Context, cp *coupon.Coupon) error {
	err := c.inner.Save(ctx, cp)
	id, code := cp.ID(), cp.Code()
	c.invalidate(ctx, id, code)
	if err == nil {
		shared.AfterCommit(ctx, func(ctx context.Context) { c.invalidate(ctx, id, code) })
	}
	return err
}

func (c *CouponCache) FindByID(ctx context.Context, id string) (*coupon.Coupon, error) {
	return c.inner.FindByID(ctx, id)
}

func (c *CouponCache) List(ctx context.Context) ([]*coupon.Coupon, error) {
	return c.inner.List(ctx)
}

func (c *CouponCache) Remove(ctx context.Context, id string) error {
	err := c.inner.Remove(ctx, id)
	c.invalidate(ctx, id)
	if err == nil {
		shared.AfterCommit(ctx, func(ctx context.Context) { c.invalidate(ctx, id) })
	}
	return err
}

var _ coupon.Repository = (*CouponCache)(nil)
