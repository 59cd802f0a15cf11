package mocks

import (
	"context"
	"sort"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// MockCancellationRepository in-memory ledger.
// The one-Pending-per-order rule is checked on every save, like the unique index of the real stores.
type MockCancellationRepository struct {
	store *Store
}

func NewMockCancellationRepository(store *Store) *MockCancellationRepository {
	return &MockCancellationRepository{store: store}
}

func (r *MockCancellationRepository) Save(ctx context.Context, req *cancellation.Request) error {
	err := r.store.write(ctx, func(st *state) error {
		if req.Status() == cancellation.StatusPending {
			for id, other := range st.requests {
				if id != req.ID() && other.OrderID == req.OrderID() && other.Status == cancellation.StatusPending {
					return cancellation.NewAlreadyPendingError(req.OrderID())
				}
			}
		}

		existing, exists := st.requests[req.ID()]
		snapshot := req.Snapshot()
		if !req.IsNew() {
			if !exists || existing.Version != req.Version() {
				return cancellation.NewConcurrentModificationError(req.ID())
			}
			snapshot.Version = req.Version() + 1
		} else if exists {
			return cancellation.NewConcurrentModificationError(req.ID())
		}
		st.requests[req.ID()] = snapshot
		return nil
	})
	if err != nil {
		return err
	}
	req.MarkPersisted()
	return nil
}

func (r *MockCancellationRepository) FindPendingByOrderID(ctx context.Context, orderID string) (*cancellation.Request, error) {
	var found *cancellation.Request
	r.store.read(ctx, func(st *state) {
		for _, dto := range st.requests {
			if dto.OrderID == orderID && dto.Status == cancellation.StatusPending {
				found = cancellation.RebuildFromDTO(dto)
				return
			}
		}
	})
	if found == nil {
		return nil, cancellation.NewRequestNotFoundError(orderID)
	}
	return found, nil
}

func (r *MockCancellationRepository) List(ctx context.Context, spec shared.Specification[*cancellation.Request]) ([]*cancellation.Request, error) {
	var all []*cancellation.Request
	r.store.read(ctx, func(st *state) {
		for _, dto := range st.requests {
			all = append(all, cancellation.RebuildFromDTO(dto))
		}
	})
	rows := shared.Filter(ctx, spec, all)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt().Equal(rows[j].CreatedAt()) {
			return rows[i].CreatedAt().After(rows[j].CreatedAt())
		}
		return rows[i].ID() > rows[j].ID()
	})
	return rows, nil
}

func (r *MockCancellationRepository) RemoveByOrderID(ctx context.Context, orderID string) error {
	return r.store.write(ctx, func(st *state) error {
		for id, dto := range st.requests {
			if dto.OrderID == orderID {
				delete(st.requests, id)
			}
		}
		return nil
	})
}

var _ cancellation.Repository = (*MockCancellationRepository)(nil)
