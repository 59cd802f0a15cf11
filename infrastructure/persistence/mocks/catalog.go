package mocks

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"
)

// MockCatalog resolves product categories and user profiles from seeded data
type MockCatalog struct {
	store *Store
}

func NewMockCatalog(store *Store) *MockCatalog {
	return &MockCatalog{store: store}
}

func (c *MockCatalog) CategoriesOf(_ context.Context, productIDs []string) (map[string]string, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	out := make(map[string]string, len(productIDs))
	for _, id := range productIDs {
		if category, ok := c.store.products[id]; ok {
			out[id] = category
		}
	}
	return out, nil
}

func (c *MockCatalog) FindByIDs(_ context.Context, ids []string) (map[string]user.Profile, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	out := make(map[string]user.Profile, len(ids))
	for _, id := range ids {
		if p, ok := c.store.users[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var (
	_ coupon.CategoryResolver = (*MockCatalog)(nil)
	_ user.Directory          = (*MockCatalog)(nil)
)
