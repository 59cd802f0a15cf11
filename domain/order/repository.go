package order

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
)

// Repository Order repository interface
type Repository interface {
	// Save inserts a new order or updates an existing one guarded by its version.
	// A stale version yields ErrConcurrentModification.
	// Events are collected by the unit of work, not by the repository.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound when absent
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByIDs resolves several orders at once; missing ids are skipped
	FindByIDs(ctx context.Context, ids []string) ([]*Order, error)

	// FindByUserID lists a user's orders, newest first
	FindByUserID(ctx context.Context, userID string) ([]*Order, error)

	// List returns one page of orders matching spec (nil matches all), newest first, plus the total count
	List(ctx context.Context, spec shared.Specification[*Order], page shared.Page) ([]*Order, int64, error)

	// Remove physically deletes the order (administrative hard delete)
	Remove(ctx context.Context, id string) error
}
