package coupon

import "context"

// Repository coupon persistence
type Repository interface {
	// Save inserts or version-guarded updates; a duplicate code yields ErrDuplicateCode
	Save(ctx context.Context, coupon *Coupon) error
	FindByID(ctx context.Context, id string) (*Coupon, error)
	// FindByCode expects an already normalized code
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Remove(ctx context.Context, id string) error
}

// CategoryResolver maps product references to their catalog category.
// Unknown products are absent from the result.
type CategoryResolver interface {
	CategoriesOf(ctx context.Context, productIDs []string) (map[string]string, error)
}
