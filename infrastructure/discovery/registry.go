// Package discovery 在 etcd 中登记服务实例，租约到期后 key 自动消失
package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

const (
	KeyPrefix = "/services/"

	defaultTTL         = 30 * time.Second
	defaultDialTimeout = 5 * time.Second
)

// Instance 一个可访问的服务地址
type Instance struct {
	Name string
	Host string
	Port string
}

func (i Instance) Addr() string { return net.JoinHostPort(i.Host, i.Port) }

// Key /services/<name>/<host:port>
func (i Instance) Key() string { return KeyPrefix + i.Name + "/" + i.Addr() }

type Registry struct {
	client  *clientv3.Client
	ttl     time.Duration
	leaseID clientv3.LeaseID
	cancel  context.CancelFunc
}

func NewRegistry(cfg config.DiscoveryConfig) (*Registry, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	ttl := cfg.TTL
	if ttl < time.Second {
		ttl = defaultTTL
	}
	return &Registry{client: cli, ttl: ttl}, nil
}

// Register 写入带租约的 key 并在后台续约，ctx 结束后停止续约
func (r *Registry) Register(ctx context.Context, instance Instance) error {
	lease, err := r.client.Grant(ctx, int64(r.ttl/time.Second))
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	if _, err := r.client.Put(ctx, instance.Key(), instance.Addr(), clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	keepAliveCtx, cancel := context.WithCancel(ctx)
	ch, err := r.client.KeepAlive(keepAliveCtx, lease.ID)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to keep alive: %w", err)
	}
	r.leaseID = lease.ID
	r.cancel = cancel

	go func() {
		for range ch {
		}
		// 通道关闭意味着续约停止，key 将在 TTL 后过期
		if keepAliveCtx.Err() == nil {
			logger.Warn("Service lease keep-alive stopped", zap.String("key", instance.Key()))
		}
	}()

	logger.Info("Service registered",
		zap.String("key", instance.Key()),
		zap.Duration("ttl", r.ttl),
	)
	return nil
}

// Discover 列出某服务当前的全部实例地址
func (r *Registry) Discover(ctx context.Context, name string) ([]string, error) {
	resp, err := r.client.Get(ctx, KeyPrefix+name+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to discover service: %w", err)
	}
	addrs := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		addrs = append(addrs, string(kv.Value))
	}
	return addrs, nil
}

// Deregister 撤销租约，key 随之删除
func (r *Registry) Deregister(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.leaseID == 0 {
		return nil
	}
	if _, err := r.client.Revoke(ctx, r.leaseID); err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}
	r.leaseID = 0
	return nil
}

func (r *Registry) Close() error {
	return r.client.Close()
}
