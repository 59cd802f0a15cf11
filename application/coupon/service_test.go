package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = shared.Principal{ID: "admin-1", IsAdmin: true}
	customer = shared.Principal{ID: "user-1"}
)

const (
	marvelShirt = "64b7f0c2a1d3e4f5a6b7c8d1"
	dcShirt     = "64b7f0c2a1d3e4f5a6b7c8d2"
)

func newService(t *testing.T) (*ApplicationService, *mocks.MockOutboxStore) {
	t.Helper()
	store := mocks.NewStore()
	store.SeedProduct(marvelShirt, "Marvel")
	store.SeedProduct(dcShirt, "DC")
	svc := NewApplicationService(
		mocks.NewMockCouponRepository(store),
		mocks.NewMockCatalog(store),
		mocks.NewMockUnitOfWorkFactory(store),
		"USD",
	)
	return svc, mocks.NewMockOutboxStore(store)
}

func TestValidateGlobalCoupon(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), admin, CouponRequest{Code: "starry20", DiscountPercent: 20, IsGlobal: true})
	require.NoError(t, err)

	resp, err := svc.Validate(context.Background(), ValidateCouponRequest{Code: "STARRY20", CartTotal: 100})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, 20.0, resp.DiscountAmount)
	assert.False(t, resp.CategorySpecific)
}

func TestValidateCategoryCoupon(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), admin, CouponRequest{Code: "HEROES10", DiscountPercent: 10, Categories: []string{"marvel"}})
	require.NoError(t, err)

	resp, err := svc.Validate(context.Background(), ValidateCouponRequest{
		Code:      "heroes10",
		CartTotal: 130,
		CartItems: []CartItemDTO{
			{Product: marvelShirt, Price: 50, Qty: 2},
			{Product: dcShirt, Price: 30, Qty: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.DiscountAmount)
	assert.Equal(t, 100.0, resp.EligibleSubtotal)
	assert.True(t, resp.CategorySpecific)

	_, err = svc.Validate(context.Background(), ValidateCouponRequest{
		Code:      "HEROES10",
		CartTotal: 30,
		CartItems: []CartItemDTO{{Product: dcShirt, Price: 30, Qty: 1}},
	})
	assert.ErrorIs(t, err, coupon.ErrNoEligibleItems)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCouponAdministration(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, customer, CouponRequest{Code: "NOPE", DiscountPercent: 5})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	created, err := svc.Create(ctx, admin, CouponRequest{Code: "summer", DiscountPercent: 15, MinAmount: 50})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER", created.Code)
	assert.True(t, created.IsActive)

	_, err = svc.Create(ctx, admin, CouponRequest{Code: "Summer", DiscountPercent: 5})
	assert.ErrorIs(t, err, coupon.ErrDuplicateCode)

	inactive := false
	updated, err := svc.Update(ctx, admin, created.ID, CouponRequest{Code: "SUMMER", DiscountPercent: 25, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.DiscountPercent)
	assert.False(t, updated.IsValid)

	_, err = svc.Validate(ctx, ValidateCouponRequest{Code: "SUMMER", CartTotal: 100})
	assert.ErrorIs(t, err, shared.ErrInvalidOperation)

	list, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, admin, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRedeem(t *testing.T) {
	svc, outbox := newService(t)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	_, err := svc.Create(ctx, admin, CouponRequest{Code: "ONCE", DiscountPercent: 10, MaxUses: 1, ExpiresAt: &expires, IsGlobal: true})
	require.NoError(t, err)

	redeemed, err := svc.Redeem(ctx, admin, "once")
	require.NoError(t, err)
	assert.Equal(t, 1, redeemed.Uses)
	assert.False(t, redeemed.IsValid)

	_, err = svc.Redeem(ctx, admin, "ONCE")
	assert.ErrorIs(t, err, coupon.ErrCouponUnavailable)

	records := outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "coupon.redeemed", records[0].EventType)
}
