package mocks

import (
	"context"
	"sort"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// MockOrderRepository in-memory order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
type MockOrderRepository struct {
	store *Store
}

func NewMockOrderRepository(store *Store) *MockOrderRepository {
	return &MockOrderRepository{store: store}
}

func (r *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	err := r.store.write(ctx, func(st *state) error {
		existing, exists := st.orders[o.ID()]
		snapshot := o.Snapshot()
		if o.IsNew() {
			if exists {
				return order.NewConcurrentModificationError(o.ID())
			}
			st.orders[o.ID()] = snapshot
			return nil
		}
		if !exists {
			return order.NewOrderNotFoundError(o.ID())
		}
		if existing.Version != o.Version() {
			return order.NewConcurrentModificationError(o.ID())
		}
		snapshot.Version = o.Version() + 1
		st.orders[o.ID()] = snapshot
		return nil
	})
	if err != nil {
		return err
	}

	if !o.IsNew() {
		o.IncrementVersionForSave()
	}
	o.ClearDirtyTracking()
	return nil
}

func (r *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var (
		dto order.ReconstructionDTO
		ok  bool
	)
	r.store.read(ctx, func(st *state) { dto, ok = st.orders[id] })
	if !ok {
		// 使用带堆栈的错误构造函数
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *MockOrderRepository) FindByIDs(ctx context.Context, ids []string) ([]*order.Order, error) {
	var orders []*order.Order
	r.store.read(ctx, func(st *state) {
		for _, id := range ids {
			if dto, ok := st.orders[id]; ok {
				orders = append(orders, order.RebuildFromDTO(dto))
			}
		}
	})
	return orders, nil
}

func (r *MockOrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByUserIDSpecification(userID))
}

// FindBySpecification returns matching orders newest first
func (r *MockOrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	var all []*order.Order
	r.store.read(ctx, func(st *state) {
		for _, dto := range st.orders {
			all = append(all, order.RebuildFromDTO(dto))
		}
	})
	orders := shared.Filter(ctx, spec, all)
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].CreatedAt().After(orders[j].CreatedAt())
		}
		return orders[i].ID() > orders[j].ID()
	})
	return orders, nil
}

func (r *MockOrderRepository) List(ctx context.Context, spec shared.Specification[*order.Order], page shared.Page) ([]*order.Order, int64, error) {
	orders, err := r.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	page = page.Normalize()
	total := int64(len(orders))
	if page.Offset >= len(orders) {
		return []*order.Order{}, total, nil
	}
	end := page.Offset + page.Limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[page.Offset:end], total, nil
}

func (r *MockOrderRepository) Remove(ctx context.Context, id string) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return order.NewOrderNotFoundError(id)
		}
		delete(st.orders, id)
		return nil
	})
}

var _ order.Repository = (*MockOrderRepository)(nil)
