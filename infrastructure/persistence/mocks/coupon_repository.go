package mocks

import (
	"context"
	"sort"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
)

type MockCouponRepository struct {
	store *Store
}

func NewMockCouponRepository(store *Store) *MockCouponRepository {
	return &MockCouponRepository{store: store}
}

func (r *MockCouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	err := r.store.write(ctx, func(st *state) error {
		for id, other := range st.coupons {
			if id != c.ID() && other.Code == c.Code() {
				return coupon.NewDuplicateCodeError(c.Code())
			}
		}
		existing, exists := st.coupons[c.ID()]
		snapshot := c.Snapshot()
		if !c.IsNew() {
			if !exists || existing.Version != c.Version() {
				return coupon.NewConcurrentModificationError(c.ID())
			}
			snapshot.Version = c.Version() + 1
		}
		st.coupons[c.ID()] = snapshot
		return nil
	})
	if err != nil {
		return err
	}
	c.MarkPersisted()
	return nil
}

func (r *MockCouponRepository) FindByID(ctx context.Context, id string) (*coupon.Coupon, error) {
	var (
		dto coupon.ReconstructionDTO
		ok  bool
	)
	r.store.read(ctx, func(st *state) { dto, ok = st.coupons[id] })
	if !ok {
		return nil, coupon.NewCouponNotFoundError(id)
	}
	return coupon.RebuildFromDTO(dto), nil
}

func (r *MockCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var found *coupon.Coupon
	r.store.read(ctx, func(st *state) {
		for _, dto := range st.coupons {
			if dto.Code == code {
				found = coupon.RebuildFromDTO(dto)
				return
			}
		}
	})
	if found == nil {
		return nil, coupon.NewCouponNotFoundError(code)
	}
	return found, nil
}

func (r *MockCouponRepository) List(ctx context.Context) ([]*coupon.Coupon, error) {
	var coupons []*coupon.Coupon
	r.store.read(ctx, func(st *state) {
		for _, dto := range st.coupons {
			coupons = append(coupons, coupon.RebuildFromDTO(dto))
		}
	})
	sort.Slice(coupons, func(i, j int) bool { return coupons[i].Code() < coupons[j].Code() })
	return coupons, nil
}

func (r *MockCouponRepository) Remove(ctx context.Context, id string) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.coupons[id]; !ok {
			return coupon.NewCouponNotFoundError(id)
		}
		delete(st.coupons, id)
		return nil
	})
}

var _ coupon.Repository = (*MockCouponRepository)(nil)
