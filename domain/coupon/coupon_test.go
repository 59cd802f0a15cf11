package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(cents int64) shared.Money { return shared.NewMoney(cents, "USD") }

type stubRepository struct {
	byCode map[string]*Coupon
}

func (r *stubRepository) Save(context.Context, *Coupon) error { return nil }
func (r *stubRepository) FindByID(context.Context, string) (*Coupon, error) {
	return nil, NewCouponNotFoundError("")
}
func (r *stubRepository) FindByCode(_ context.Context, code string) (*Coupon, error) {
	if c, ok := r.byCode[code]; ok {
		return c, nil
	}
	return nil, NewCouponNotFoundError(code)
}
func (r *stubRepository) List(context.Context) ([]*Coupon, error) { return nil, nil }
func (r *stubRepository) Remove(context.Context, string) error    { return nil }

type stubCategories map[string]string

func (s stubCategories) CategoriesOf(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range ids {
		if c, ok := s[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func mustCoupon(t *testing.T, def Definition) *Coupon {
	t.Helper()
	c, err := NewCoupon(def)
	require.NoError(t, err)
	return c
}

func newEvaluator(t *testing.T, coupons ...*Coupon) *Evaluator {
	repo := &stubRepository{byCode: map[string]*Coupon{}}
	for _, c := range coupons {
		repo.byCode[c.Code()] = c
	}
	return NewEvaluator(repo, stubCategories{"marvel-1": "Marvel", "dc-1": "DC"})
}

func TestGlobalCouponDiscount(t *testing.T) {
	e := newEvaluator(t, mustCoupon(t, Definition{Code: "STARRY20", DiscountPercent: 20, Active: true, Global: true}))

	got, err := e.Validate(context.Background(), "starry20", usd(10000), nil)
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.Equal(t, 20.0, got.DiscountPercent)
	assert.Equal(t, 20.0, got.DiscountAmount.Float())
	assert.False(t, got.CategorySpecific)
}

func TestCategoryCouponDiscount(t *testing.T) {
	e := newEvaluator(t, mustCoupon(t, Definition{
		Code: "HEROES10", DiscountPercent: 10, Active: true, Categories: []string{"marvel"},
	}))
	items := []CartItem{
		{ProductID: "marvel-1", Price: usd(5000), Quantity: 2},
		{ProductID: "dc-1", Price: usd(3000), Quantity: 1},
	}

	got, err := e.Validate(context.Background(), "HEROES10", usd(13000), items)
	require.NoError(t, err)
	assert.True(t, got.CategorySpecific)
	assert.Equal(t, 10.0, got.DiscountAmount.Float())
	assert.Equal(t, 100.0, got.EligibleSubtotal.Float())

	_, err = e.Validate(context.Background(), "HEROES10", usd(3000), items[1:])
	assert.ErrorIs(t, err, ErrNoEligibleItems)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCategoryCouponMatchesUppercaseProductRef(t *testing.T) {
	c := mustCoupon(t, Definition{Code: "HEROES10", DiscountPercent: 10, Active: true, Categories: []string{"marvel"}})
	e := NewEvaluator(&stubRepository{byCode: map[string]*Coupon{c.Code(): c}},
		stubCategories{"64b7f0c2a1d3e4f5a6b7c8d9": "Marvel"})

	got, err := e.Validate(context.Background(), "HEROES10", usd(5000), []CartItem{
		{ProductID: " 64B7F0C2A1D3E4F5A6B7C8D9 ", Price: usd(5000), Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, got.CategorySpecific)
	assert.Equal(t, 50.0, got.EligibleSubtotal.Float())
	assert.Equal(t, int64(500), got.DiscountAmount.Amount())
}

func TestGlobalFlagOverridesCategories(t *testing.T) {
	e := newEvaluator(t, mustCoupon(t, Definition{
		Code: "ALL5", DiscountPercent: 5, Active: true, Global: true, Categories: []string{"marvel"},
	}))

	got, err := e.Validate(context.Background(), "ALL5", usd(3000), []CartItem{{ProductID: "dc-1", Price: usd(3000), Quantity: 1}})
	require.NoError(t, err)
	assert.False(t, got.CategorySpecific)
	assert.Equal(t, int64(150), got.DiscountAmount.Amount())
}

func TestValidateFailures(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	used := mustCoupon(t, Definition{Code: "ONCE", DiscountPercent: 10, Active: true, Global: true, MaxUses: 1})
	require.NoError(t, used.Redeem(time.Now()))

	e := newEvaluator(t,
		mustCoupon(t, Definition{Code: "OFF", DiscountPercent: 10, Global: true}),
		mustCoupon(t, Definition{Code: "OLD", DiscountPercent: 10, Active: true, Global: true, ExpiresAt: &past}),
		used,
		mustCoupon(t, Definition{Code: "BIG", DiscountPercent: 10, Active: true, Global: true, MinAmount: usd(5000)}),
	)
	ctx := context.Background()

	testCases := []struct {
		code string
		want []error
		msg  string
	}{
		{"NOPE", []error{ErrCouponNotFound, shared.ErrNotFound}, ""},
		{"OFF", []error{ErrCouponUnavailable, shared.ErrInvalidOperation}, ReasonInactive},
		{"OLD", []error{ErrCouponUnavailable, shared.ErrInvalidOperation}, ReasonExpired},
		{"ONCE", []error{ErrCouponUnavailable, shared.ErrInvalidOperation}, ReasonUsageReached},
		{"BIG", []error{ErrMinimumNotMet, shared.ErrInvalidInput}, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			_, err := e.Validate(ctx, tc.code, usd(1000), nil)
			require.Error(t, err)
			for _, want := range tc.want {
				assert.ErrorIs(t, err, want)
			}
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			}
		})
	}
}

func TestInvalidReasonOrder(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	c := RebuildFromDTO(ReconstructionDTO{Code: "X", Active: false, ExpiresAt: &past, MaxUses: 1, Uses: 1})
	assert.Equal(t, ReasonInactive, c.InvalidReason(time.Now()))

	c = RebuildFromDTO(ReconstructionDTO{Code: "X", Active: true, ExpiresAt: &past, MaxUses: 1, Uses: 1})
	assert.Equal(t, ReasonExpired, c.InvalidReason(time.Now()))

	future := time.Now().Add(time.Hour)
	c = RebuildFromDTO(ReconstructionDTO{Code: "X", Active: true, ExpiresAt: &future, MaxUses: 0, Uses: 99})
	assert.True(t, c.IsValid(time.Now()))
}

func TestNewCouponNormalizesAndValidates(t *testing.T) {
	c := mustCoupon(t, Definition{Code: " summer ", DiscountPercent: 15, Categories: []string{"Marvel", "marvel", " "}})
	assert.Equal(t, "SUMMER", c.Code())
	assert.Equal(t, []string{"marvel"}, c.Categories())
	assert.True(t, c.AppliesToCategory("MARVEL"))

	for _, def := range []Definition{
		{Code: ""},
		{Code: "A", DiscountPercent: 101},
		{Code: "A", DiscountPercent: -1},
		{Code: "A", MaxUses: -1},
		{Code: "A", MinAmount: usd(-1)},
	} {
		_, err := NewCoupon(def)
		assert.ErrorIs(t, err, ErrInvalidCoupon)
	}
}

func TestRedeem(t *testing.T) {
	c := mustCoupon(t, Definition{Code: "TWICE", DiscountPercent: 10, Active: true, MaxUses: 2})
	now := time.Now()

	require.NoError(t, c.Redeem(now))
	require.NoError(t, c.Redeem(now))
	assert.Equal(t, 2, c.Uses())
	assert.ErrorIs(t, c.Redeem(now), ErrCouponUnavailable)
	assert.Len(t, c.PullEvents(), 2)
}
