package order

import (
	"strings"
	"testing"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRef = "64b7f0c2a1d3e4f5a6b7c8d9"

func usd(cents int64) shared.Money { return shared.NewMoney(cents, "USD") }

func placeOptions(method PaymentMethod, refs ...string) PlaceOptions {
	if len(refs) == 0 {
		refs = []string{validRef}
	}
	items := make([]ItemRequest, len(refs))
	for i, ref := range refs {
		items[i] = ItemRequest{ProductRef: ref, Name: "Denim Jacket", UnitPrice: usd(5000), Quantity: 2, Size: "M"}
	}
	return PlaceOptions{
		UserID: "user-1",
		Items:  items,
		ShippingAddress: Address{
			Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
		},
		PaymentMethod: method,
		Prices:        Prices{Items: usd(10000), Tax: usd(800), Shipping: usd(500), Total: usd(11300)},
	}
}

func newTestOrder(t *testing.T, method PaymentMethod) *Order {
	t.Helper()
	o, err := NewOrder(placeOptions(method))
	require.NoError(t, err)
	o.PullEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	o, err := NewOrder(placeOptions(PaymentCard))
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID())
	assert.Equal(t, StatusProcessing, o.Status())
	assert.False(t, o.IsPaid())
	assert.Nil(t, o.PaidAt())
	assert.True(t, o.IsNew())
	assert.False(t, o.Review().NeedsReview)
	require.Len(t, o.Items(), 1)
	assert.Equal(t, int64(10000), o.Items()[0].Subtotal().Amount())

	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].EventName())
	assert.Empty(t, o.PullEvents())
}

func TestNewOrderValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*PlaceOptions)
		want   error
	}{
		{"empty items", func(o *PlaceOptions) { o.Items = nil }, ErrEmptyOrderItems},
		{"zero quantity", func(o *PlaceOptions) { o.Items[0].Quantity = 0 }, ErrInvalidQuantity},
		{"negative unit price", func(o *PlaceOptions) { o.Items[0].UnitPrice = usd(-1) }, ErrNegativeAmount},
		{"negative tax", func(o *PlaceOptions) { o.Prices.Tax = usd(-5) }, ErrNegativeAmount},
		{"unknown payment method", func(o *PlaceOptions) { o.PaymentMethod = "Barter" }, ErrUnknownPaymentMethod},
		{"empty product ref", func(o *PlaceOptions) { o.Items[0].ProductRef = "  " }, ErrInvalidProductRef},
		{"missing city", func(o *PlaceOptions) { o.ShippingAddress.City = "" }, shared.ErrInvalidInput},
		{"missing owner", func(o *PlaceOptions) { o.UserID = "" }, shared.ErrInvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := placeOptions(PaymentCard)
			tc.mutate(&opts)
			_, err := NewOrder(opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestNewOrderAcceptsPaymentAliases(t *testing.T) {
	o, err := NewOrder(placeOptions("cod"))
	require.NoError(t, err)
	assert.Equal(t, PaymentCashOnDelivery, o.PaymentMethod())
}

func TestNewOrderFlagsCoercedReferences(t *testing.T) {
	o, err := NewOrder(placeOptions(PaymentCard, validRef, "abc123"))
	require.NoError(t, err)

	items := o.Items()
	assert.Equal(t, validRef, items[0].ProductID())
	assert.Equal(t, "000000000000000000abc123", items[1].ProductID())
	assert.True(t, o.Review().NeedsReview)
	require.Len(t, o.Review().Notes, 1)
	assert.Contains(t, o.Review().Notes[0], "abc123")

	names := make([]string, 0)
	for _, e := range o.PullEvents() {
		names = append(names, e.EventName())
	}
	assert.Equal(t, []string{"order.placed", "order.flagged_for_review"}, names)
}

func TestNormalizeProductRef(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		coerced bool
	}{
		{validRef, validRef, false},
		{strings.ToUpper(validRef), validRef, false},
		{"abc", "000000000000000000000abc", true},
		{"sku-1", "00000000000000736b752d31", true},
		{"0123456789abcdef0123456789", "23456789abcdef0123456789", true},
	}
	for _, tc := range testCases {
		got, coerced, err := NormalizeProductRef(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.coerced, coerced, tc.in)
		assert.True(t, IsProductRef(got))
	}
}

func TestStatusTransitionTable(t *testing.T) {
	allowed := map[Status][]Status{
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered, StatusCancelled},
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("Lost")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestUpdateStatus(t *testing.T) {
	o := newTestOrder(t, PaymentCard)

	require.NoError(t, o.UpdateStatus(StatusShipped))
	assert.Nil(t, o.DeliveredAt())

	require.NoError(t, o.UpdateStatus(StatusDelivered))
	assert.Equal(t, StatusDelivered, o.Status())
	assert.NotNil(t, o.DeliveredAt())

	err := o.UpdateStatus(StatusShipped)
	assert.ErrorIs(t, err, ErrInvalidOrderStateTransition)
	assert.ErrorIs(t, err, shared.ErrConflict)

	events := o.PullEvents()
	require.Len(t, events, 2)
	changed := events[1].(*OrderStatusChangedEvent)
	assert.Equal(t, StatusShipped, changed.From)
	assert.Equal(t, StatusDelivered, changed.To)
}

func TestUpdateStatusRejectsIdentityAndCancel(t *testing.T) {
	o := newTestOrder(t, PaymentCard)

	assert.ErrorIs(t, o.UpdateStatus(StatusProcessing), shared.ErrConflict)
	assert.ErrorIs(t, o.UpdateStatus(StatusDelivered), ErrInvalidOrderStateTransition)

	err := o.UpdateStatus(StatusCancelled)
	assert.ErrorIs(t, err, ErrCancelThroughStatus)
	assert.ErrorIs(t, err, shared.ErrInvalidOperation)
	assert.Contains(t, err.Error(), "/cancel")
	assert.Contains(t, err.Error(), "/cancel-process")
	assert.Equal(t, StatusProcessing, o.Status())
}

func TestMarkPaid(t *testing.T) {
	o := newTestOrder(t, PaymentCard)

	require.NoError(t, o.MarkPaid(PaymentResult{ID: "ch_123", Status: "succeeded", EmailAddress: "a@b.c"}))
	assert.True(t, o.IsPaid())
	require.NotNil(t, o.PaidAt())
	require.NotNil(t, o.PaymentResult())
	assert.Equal(t, "ch_123", o.PaymentResult().ID)
	assert.False(t, o.PaymentResult().UpdateTime.IsZero())

	err := o.MarkPaid(PaymentResult{ID: "ch_456"})
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, "ch_123", o.PaymentResult().ID)
}

func TestMarkPaidRequiresResultID(t *testing.T) {
	o := newTestOrder(t, PaymentCard)
	assert.ErrorIs(t, o.MarkPaid(PaymentResult{}), shared.ErrInvalidInput)
	assert.False(t, o.IsPaid())
}

func TestMarkPaidRejectsCancelledOrder(t *testing.T) {
	o := newTestOrder(t, PaymentCard)
	require.NoError(t, o.Cancel(""))

	err := o.MarkPaid(PaymentResult{ID: "ch_1"})
	assert.ErrorIs(t, err, ErrOrderCancelled)
	assert.False(t, o.IsPaid())
}

func TestMarkCashOnDeliveryPaid(t *testing.T) {
	o := newTestOrder(t, PaymentCashOnDelivery)

	require.NoError(t, o.MarkCashOnDeliveryPaid())
	assert.True(t, o.IsPaid())
	assert.True(t, strings.HasPrefix(o.PaymentResult().ID, "COD-"+o.ID()+"-"))
	assert.Equal(t, "COMPLETED", o.PaymentResult().Status)
}

func TestMarkCashOnDeliveryPaidRejectsOtherMethods(t *testing.T) {
	for _, method := range []PaymentMethod{PaymentCard, PaymentWallet} {
		o := newTestOrder(t, method)
		err := o.MarkCashOnDeliveryPaid()
		assert.ErrorIs(t, err, ErrNotCashOnDelivery)
		assert.ErrorIs(t, err, shared.ErrInvalidOperation)
		assert.False(t, o.IsPaid())
		assert.Nil(t, o.PaymentResult())
	}
}

func TestRequestCancellation(t *testing.T) {
	o := newTestOrder(t, PaymentCard)

	require.NoError(t, o.RequestCancellation("changed my mind"))
	c := o.Cancellation()
	require.NotNil(t, c)
	assert.Equal(t, cancellation.StatusPending, c.Status)
	assert.Equal(t, "changed my mind", c.Reason)
	assert.Equal(t, StatusProcessing, o.Status())

	err := o.RequestCancellation("again")
	assert.ErrorIs(t, err, cancellation.ErrAlreadyPending)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestRequestCancellationOnClosedOrders(t *testing.T) {
	delivered := newTestOrder(t, PaymentCard)
	require.NoError(t, delivered.UpdateStatus(StatusShipped))
	require.NoError(t, delivered.UpdateStatus(StatusDelivered))

	cancelled := newTestOrder(t, PaymentCard)
	require.NoError(t, cancelled.Cancel("no longer needed"))

	for _, o := range []*Order{delivered, cancelled} {
		before := o.Cancellation()
		err := o.RequestCancellation("please")
		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.Equal(t, before, o.Cancellation())
	}
}

func TestApplyCancellationDecision(t *testing.T) {
	approved := newTestOrder(t, PaymentCard)
	require.NoError(t, approved.RequestCancellation("wrong size"))
	require.NoError(t, approved.ApplyCancellationDecision(cancellation.StatusApproved, "wrong size", "ok"))
	assert.Equal(t, StatusCancelled, approved.Status())
	assert.Equal(t, cancellation.StatusApproved, approved.Cancellation().Status)
	assert.Equal(t, "ok", approved.Cancellation().AdminNote)
	assert.Equal(t, "wrong size", approved.Cancellation().Reason)

	rejected := newTestOrder(t, PaymentCard)
	require.NoError(t, rejected.RequestCancellation("wrong size"))
	require.NoError(t, rejected.ApplyCancellationDecision(cancellation.StatusRejected, "wrong size", "already packed"))
	assert.Equal(t, StatusProcessing, rejected.Status())
	assert.Equal(t, cancellation.StatusRejected, rejected.Cancellation().Status)
}

func TestCancel(t *testing.T) {
	o := newTestOrder(t, PaymentCard)
	require.NoError(t, o.Cancel("   "))

	assert.Equal(t, StatusCancelled, o.Status())
	c := o.Cancellation()
	require.NotNil(t, c)
	assert.Equal(t, DefaultCancelReason, c.Reason)
	assert.Equal(t, cancellation.StatusApproved, c.Status)

	assert.ErrorIs(t, o.Cancel("twice"), ErrInvalidOrderStateTransition)
	assert.ErrorIs(t, o.UpdateStatus(StatusShipped), shared.ErrConflict)
}

func TestRebuildFromDTO(t *testing.T) {
	item := RebuildItemFromDTO(ItemReconstructionDTO{ProductID: validRef, Name: "Tee", UnitPrice: usd(1500), Quantity: 3})
	o := RebuildFromDTO(ReconstructionDTO{
		ID: "o-1", UserID: "u-1", Items: []LineItem{item}, PaymentMethod: PaymentWallet,
		Status: StatusShipped, Version: 4,
	})

	assert.False(t, o.IsNew())
	assert.Equal(t, 4, o.Version())
	assert.Equal(t, int64(4500), o.Items()[0].Subtotal().Amount())
	assert.True(t, o.IsOwnedBy("u-1"))
	assert.False(t, o.IsOwnedBy(""))

	o.IncrementVersionForSave()
	assert.Equal(t, 5, o.Version())
}
