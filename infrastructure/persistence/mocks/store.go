/*
Package mocks is the in-memory storage driver. It backs the "memory" storage
mode and the application and API tests.

Aggregates are stored as reconstruction DTO snapshots, never as live pointers,
so a unit of work sees its own writes only and a failed unit of work leaves
the store untouched. Writers are serialized by a single transaction lock.
*/
package mocks

import (
	"context"
	"sync"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
)

type state struct {
	orders   map[string]order.ReconstructionDTO
	requests map[string]cancellation.ReconstructionDTO
	coupons  map[string]coupon.ReconstructionDTO
	outbox   []outbox.Record
}

func newState() *state {
	return &state{
		orders:   make(map[string]order.ReconstructionDTO),
		requests: make(map[string]cancellation.ReconstructionDTO),
		coupons:  make(map[string]coupon.ReconstructionDTO),
	}
}

func (s *state) clone() *state {
	c := &state{
		orders:   make(map[string]order.ReconstructionDTO, len(s.orders)),
		requests: make(map[string]cancellation.ReconstructionDTO, len(s.requests)),
		coupons:  make(map[string]coupon.ReconstructionDTO, len(s.coupons)),
		outbox:   make([]outbox.Record, len(s.outbox)),
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.coupons {
		c.coupons[k] = v
	}
	copy(c.outbox, s.outbox)
	return c
}

// Store holds all in-memory collections
type Store struct {
	txMu sync.Mutex   // serializes writers
	mu   sync.RWMutex // guards st
	st   *state

	products map[string]string // product id → category
	users    map[string]user.Profile
}

func NewStore() *Store {
	return &Store{
		st:       newState(),
		products: make(map[string]string),
		users:    make(map[string]user.Profile),
	}
}

type memTxKey struct{}

func txState(ctx context.Context) *state {
	if st, ok := ctx.Value(memTxKey{}).(*state); ok {
		return st
	}
	return nil
}

// read runs fn against the transaction snapshot when present, else the committed state
func (s *Store) read(ctx context.Context, fn func(st *state)) {
	if st := txState(ctx); st != nil {
		fn(st)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// write runs fn inside the current transaction, or as its own short transaction
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st := txState(ctx); st != nil {
		return fn(st)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// begin snapshots the committed state; the caller must hold txMu
func (s *Store) begin(ctx context.Context) (context.Context, *state) {
	s.mu.RLock()
	st := s.st.clone()
	s.mu.RUnlock()
	return context.WithValue(ctx, memTxKey{}, st), st
}

func (s *Store) commit(st *state) {
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
}

// SeedProduct registers a catalog product's category
func (s *Store) SeedProduct(productID, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[productID] = category
}

// SeedUser registers a user profile for listing resolution
func (s *Store) SeedUser(p user.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[p.ID] = p
}
