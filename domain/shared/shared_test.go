package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	a := MoneyFromFloat(19.99, "usd")
	assert.Equal(t, int64(1999), a.Amount())
	assert.Equal(t, "USD", a.Currency())

	sum, err := a.Add(NewMoney(1, "USD"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, sum.Float())

	_, err = a.Add(NewMoney(1, "EUR"))
	assert.Error(t, err)

	triple, err := a.Multiply(3)
	require.NoError(t, err)
	assert.Equal(t, int64(5997), triple.Amount())

	_, err = NewMoney(1<<62, "USD").Multiply(4)
	assert.ErrorIs(t, err, ErrMoneyOverflow)

	assert.Equal(t, int64(2000), NewMoney(10000, "USD").Percent(20).Amount())
	assert.Equal(t, int64(333), NewMoney(3333, "USD").Percent(10).Amount())
}

func TestDomainErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("coupon not found")
	err := NewError(ErrNotFound, cause, "coupon", "code", "coupon X not found", 0)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "coupon X not found", err.Error())

	var stacker Stacker
	require.ErrorAs(t, err, &stacker)
	assert.NotEmpty(t, stacker.Stack())
}

func TestGenericErrorConstructors(t *testing.T) {
	assert.ErrorIs(t, NewNotFoundError("order"), ErrNotFound)
	assert.ErrorIs(t, NewConflictError("order", "busy"), ErrConflict)
	assert.ErrorIs(t, NewValidationError("order", "items", "empty"), ErrInvalidInput)
	assert.ErrorIs(t, NewForbiddenError("order", "nope"), ErrForbidden)
	assert.ErrorIs(t, NewUnauthorizedError("missing token"), ErrUnauthorized)
	assert.ErrorIs(t, NewInvalidOperationError("order", "not cod"), ErrInvalidOperation)
}

type evenSpec struct{}

func (evenSpec) IsSatisfiedBy(_ context.Context, n int) bool { return n%2 == 0 }

type positiveSpec struct{}

func (positiveSpec) IsSatisfiedBy(_ context.Context, n int) bool { return n > 0 }

func TestSpecificationComposition(t *testing.T) {
	ctx := context.Background()
	nums := []int{-2, -1, 0, 1, 2, 3, 4}

	assert.Equal(t, []int{2, 4}, Filter[int](ctx, And[int](evenSpec{}, positiveSpec{}), nums))
	assert.Equal(t, []int{-2, 0, 1, 2, 3, 4}, Filter[int](ctx, Or[int](evenSpec{}, positiveSpec{}), nums))
	assert.Equal(t, []int{-1, 1, 3}, Filter[int](ctx, Not[int](evenSpec{}), nums))
	assert.Equal(t, nums, Filter[int](ctx, nil, nums))
}

func TestPrincipal(t *testing.T) {
	owner := Principal{ID: "u1"}
	admin := Principal{ID: "a1", IsAdmin: true}

	assert.True(t, owner.CanAccess("u1"))
	assert.False(t, owner.CanAccess("u2"))
	assert.False(t, Principal{}.CanAccess(""))
	assert.True(t, admin.CanAccess("u2"))

	assert.NoError(t, admin.RequireAdmin("order"))
	assert.ErrorIs(t, owner.RequireAdmin("order"), ErrForbidden)
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Offset: 0, Limit: DefaultPageSize}, NewPage(0, 0))
	assert.Equal(t, Page{Offset: 20, Limit: 10}, NewPage(3, 10))
	assert.Equal(t, Page{Offset: 0, Limit: MaxPageSize}, NewPage(1, 1000))
}

func TestAfterCommit(t *testing.T) {
	var calls []string

	AfterCommit(context.Background(), func(context.Context) { calls = append(calls, "direct") })
	assert.Equal(t, []string{"direct"}, calls)

	ctx, hooks := WithCommitHooks(context.Background())
	AfterCommit(ctx, func(context.Context) { calls = append(calls, "first") })
	AfterCommit(ctx, func(context.Context) { calls = append(calls, "second") })
	assert.Len(t, calls, 1, "hooks wait for Run")

	hooks.Run(context.Background())
	assert.Equal(t, []string{"direct", "first", "second"}, calls)

	hooks.Run(context.Background())
	assert.Len(t, calls, 3, "hooks run once")

	AfterCommit(ctx, func(context.Context) { calls = append(calls, "dropped") })
	hooks.Reset()
	hooks.Run(context.Background())
	assert.Len(t, calls, 3)
}
