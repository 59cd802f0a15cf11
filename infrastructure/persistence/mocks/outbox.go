package mocks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
)

// MockOutboxStore keeps outbox records next to the aggregates, so they commit together
type MockOutboxStore struct {
	store *Store
}

func NewMockOutboxStore(store *Store) *MockOutboxStore {
	return &MockOutboxStore{store: store}
}

func (s *MockOutboxStore) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	record, err := outbox.NewRecord(event)
	if err != nil {
		return err
	}
	return s.store.write(ctx, func(st *state) error {
		st.outbox = append(st.outbox, record)
		return nil
	})
}

func (s *MockOutboxStore) FetchPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	var pending []outbox.Record
	s.store.read(ctx, func(st *state) {
		for _, r := range st.outbox {
			if r.Status == outbox.StatusPending {
				pending = append(pending, r)
			}
		}
	})
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *MockOutboxStore) MarkProcessing(ctx context.Context, id string) error {
	return s.update(ctx, id, func(r *outbox.Record) error {
		if r.Status != outbox.StatusPending {
			return fmt.Errorf("outbox event %s already claimed (status %s)", id, r.Status)
		}
		r.Status = outbox.StatusProcessing
		return nil
	})
}

func (s *MockOutboxStore) MarkPublished(ctx context.Context, id string) error {
	return s.update(ctx, id, func(r *outbox.Record) error {
		r.Status = outbox.StatusPublished
		return nil
	})
}

func (s *MockOutboxStore) MarkFailed(ctx context.Context, id string, reason string, maxRetries int) error {
	return s.update(ctx, id, func(r *outbox.Record) error {
		r.RetryCount++
		r.LastError = outbox.TruncateError(reason)
		r.Status = outbox.NextStatus(r.RetryCount, maxRetries)
		return nil
	})
}

func (s *MockOutboxStore) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var reclaimed int64
	err := s.store.write(ctx, func(st *state) error {
		now := time.Now().UTC()
		for i := range st.outbox {
			if st.outbox[i].Status == outbox.StatusProcessing && st.outbox[i].UpdatedAt.Before(cutoff) {
				st.outbox[i].Status = outbox.StatusPending
				st.outbox[i].UpdatedAt = now
				reclaimed++
			}
		}
		return nil
	})
	return reclaimed, err
}

// Records returns a copy of every stored record, oldest first
func (s *MockOutboxStore) Records() []outbox.Record {
	var out []outbox.Record
	s.store.read(context.Background(), func(st *state) {
		out = append(out, st.outbox...)
	})
	return out
}

func (s *MockOutboxStore) update(ctx context.Context, id string, fn func(r *outbox.Record) error) error {
	return s.store.write(ctx, func(st *state) error {
		for i := range st.outbox {
			if st.outbox[i].ID == id {
				if err := fn(&st.outbox[i]); err != nil {
					return err
				}
				st.outbox[i].UpdatedAt = time.Now().UTC()
				return nil
			}
		}
		return fmt.Errorf("outbox event %s not found", id)
	})
}

var (
	_ outbox.Store            = (*MockOutboxStore)(nil)
	_ shared.OutboxRepository = (*MockOutboxStore)(nil)
)
