package po

import (
	"testing"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(cents int64) shared.Money { return shared.NewMoney(cents, "USD") }

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.PlaceOptions{
		UserID: "user-1",
		Items: []order.ItemRequest{
			{ProductRef: "64b7f0c2a1d3e4f5a6b7c8d9", Name: "Denim Jacket", UnitPrice: usd(5000), Quantity: 2, Size: "M"},
			{ProductRef: "abc", Name: "Cap", UnitPrice: usd(1500), Quantity: 1},
		},
		ShippingAddress: order.Address{Street: "1 Main St", City: "Springfield", PostalCode: "62701", Country: "US"},
		PaymentMethod:   order.PaymentCard,
		Prices:          order.Prices{Items: usd(11500), Tax: usd(0), Shipping: usd(0), Total: usd(11500)},
	})
	require.NoError(t, err)
	return o
}

func TestOrderPOMapping(t *testing.T) {
	o := newOrder(t)
	require.NoError(t, o.RequestCancellation("Wrong size"))

	orderPO, items := FromOrderDomain(o)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Position)
	assert.True(t, orderPO.NeedsReview)
	assert.Equal(t, "Pending", orderPO.CancelStatus)

	rebuilt := orderPO.ToDomain(items)
	assert.Equal(t, o.ID(), rebuilt.ID())
	assert.Equal(t, o.Prices(), rebuilt.Prices())
	assert.Equal(t, o.Items(), rebuilt.Items())
	assert.Equal(t, o.Review(), rebuilt.Review())
	require.NotNil(t, rebuilt.Cancellation())
	assert.Equal(t, "Wrong size", rebuilt.Cancellation().Reason)
	assert.Nil(t, rebuilt.PaymentResult())
}

func TestCancellationPOPendingColumn(t *testing.T) {
	req, err := cancellation.NewRequest("order-1", "user-1", "Changed my mind")
	require.NoError(t, err)

	pending := FromCancellationDomain(req)
	require.NotNil(t, pending.PendingOrderID)
	assert.Equal(t, "order-1", *pending.PendingOrderID)

	require.NoError(t, req.Decide(cancellation.StatusRejected, "shipped already", "admin-1"))
	decided := FromCancellationDomain(req)
	assert.Nil(t, decided.PendingOrderID)

	rebuilt := decided.ToDomain()
	assert.Equal(t, cancellation.StatusRejected, rebuilt.Status())
	assert.Equal(t, "admin-1", rebuilt.ProcessedBy())
}
