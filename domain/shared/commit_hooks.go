package shared

import (
	"context"
	"sync"
)

type commitHooksKey struct{}

// CommitHooks 收集事务提交成功后才执行的回调（如缓存失效）。
// UnitOfWork 每次尝试创建一个，回滚或重试时丢弃。
type CommitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithCommitHooks 把新的回调集合挂到 ctx 上
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	hooks := &CommitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, hooks), hooks
}

// Reset 清空已登记回调，事务回调被重跑时使用
func (h *CommitHooks) Reset() {
	h.mu.Lock()
	h.fns = nil
	h.mu.Unlock()
}

// Run 按登记顺序执行
func (h *CommitHooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn(ctx)
	}
}

// AfterCommit 在当前事务提交后执行 fn；ctx 不在事务中时立即执行
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(commitHooksKey{}).(*CommitHooks)
	if !ok {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}
