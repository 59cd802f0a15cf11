//go:build integration

package mongostore

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// 事务需要副本集
func setupMongo(t *testing.T) (*mongo.Client, *mongo.Database) {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	if !strings.Contains(uri, "directConnection") {
		sep := "/?"
		if strings.Contains(uri, "?") {
			sep = "&"
		}
		uri += sep + "directConnection=true"
	}

	client, err := Connect(ctx, config.MongoConfig{URI: uri, Database: "storefront_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("storefront_test")
	require.NoError(t, EnsureIndexes(ctx, db))
	return client, db
}

func usd(cents int64) shared.Money { return shared.NewMoney(cents, "USD") }

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.PlaceOptions{
		UserID: "64b7f0c2a1d3e4f5a6b7c800",
		Items: []order.ItemRequest{
			{ProductRef: "64b7f0c2a1d3e4f5a6b7c8d9", Name: "Linen Shirt", UnitPrice: usd(4500), Quantity: 1, Size: "L"},
		},
		ShippingAddress: order.Address{Street: "1 Main St", City: "Springfield", PostalCode: "62701", Country: "US"},
		PaymentMethod:   order.PaymentCard,
		Prices:          order.Prices{Items: usd(4500), Tax: usd(360), Shipping: usd(0), Total: usd(4860)},
	})
	require.NoError(t, err)
	return o
}

func TestMongoStore(t *testing.T) {
	client, db := setupMongo(t)
	ctx := context.Background()

	orders := NewOrderRepository(db)
	ledger := NewCancellationRepository(db)
	coupons := NewCouponRepository(db)
	factory := NewUnitOfWorkFactory(client, db, retry.DefaultConfig)

	t.Run("order save and optimistic lock", func(t *testing.T) {
		o := newOrder(t)
		uow := factory.New()
		require.NoError(t, uow.Execute(ctx, func(ctx context.Context) error {
			uow.RegisterNew(o)
			return orders.Save(ctx, o)
		}))

		loaded, err := orders.FindByID(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.StatusProcessing, loaded.Status())
		assert.Equal(t, int64(4860), loaded.Prices().Total.Amount())
		require.Len(t, loaded.Items(), 1)
		assert.Equal(t, "L", loaded.Items()[0].Size())

		stale, err := orders.FindByID(ctx, o.ID())
		require.NoError(t, err)

		require.NoError(t, loaded.UpdateStatus(order.StatusShipped))
		require.NoError(t, orders.Save(ctx, loaded))
		assert.Equal(t, 1, loaded.Version())

		require.NoError(t, stale.UpdateStatus(order.StatusShipped))
		err = orders.Save(ctx, stale)
		assert.ErrorIs(t, err, order.ErrConcurrentModification)

		var events []outboxDoc
		cursor, err := db.Collection(outboxCollection).Find(ctx, bson.M{"aggregateId": o.ID()})
		require.NoError(t, err)
		require.NoError(t, cursor.All(ctx, &events))
		require.NotEmpty(t, events)
		assert.Equal(t, string(outbox.StatusPending), events[0].Status)
	})

	t.Run("stale processing events are reclaimed", func(t *testing.T) {
		o := newOrder(t)
		uow := factory.New()
		require.NoError(t, uow.Execute(ctx, func(ctx context.Context) error {
			uow.RegisterNew(o)
			return orders.Save(ctx, o)
		}))

		repo := NewOutboxRepository(db)
		var doc outboxDoc
		require.NoError(t, db.Collection(outboxCollection).FindOne(ctx, bson.M{"aggregateId": o.ID()}).Decode(&doc))
		require.NoError(t, repo.MarkProcessing(ctx, doc.ID))

		n, err := repo.ReclaimStale(ctx, time.Now().UTC().Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = repo.ReclaimStale(ctx, time.Now().UTC().Add(time.Second))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		require.NoError(t, repo.MarkFailed(ctx, doc.ID, strings.Repeat("错", outbox.MaxErrorLength), 5))
		require.NoError(t, db.Collection(outboxCollection).FindOne(ctx, bson.M{"_id": doc.ID}).Decode(&doc))
		assert.Equal(t, string(outbox.StatusPending), doc.Status)
		assert.True(t, utf8.ValidString(doc.LastError))
	})

	t.Run("one pending request per order", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, orders.Save(ctx, o))

		first, err := cancellation.NewRequest(o.ID(), o.UserID(), "changed my mind")
		require.NoError(t, err)
		require.NoError(t, ledger.Save(ctx, first))

		second, err := cancellation.NewRequest(o.ID(), o.UserID(), "again")
		require.NoError(t, err)
		assert.ErrorIs(t, ledger.Save(ctx, second), cancellation.ErrAlreadyPending)

		pending, err := ledger.FindPendingByOrderID(ctx, o.ID())
		require.NoError(t, err)
		require.NoError(t, pending.Decide(cancellation.StatusRejected, "already shipped", "admin-1"))
		require.NoError(t, ledger.Save(ctx, pending))

		// 拒绝后可以再次申请
		third, err := cancellation.NewRequest(o.ID(), o.UserID(), "third time")
		require.NoError(t, err)
		require.NoError(t, ledger.Save(ctx, third))

		rows, err := ledger.List(ctx, cancellation.NewByOrderIDSpecification(o.ID()))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("coupon code is unique", func(t *testing.T) {
		c, err := coupon.NewCoupon(coupon.Definition{Code: "linen10", DiscountPercent: 10, MinAmount: usd(0), Active: true, Global: true})
		require.NoError(t, err)
		require.NoError(t, coupons.Save(ctx, c))

		dup, err := coupon.NewCoupon(coupon.Definition{Code: "LINEN10", DiscountPercent: 5, MinAmount: usd(0), Active: true, Global: true})
		require.NoError(t, err)
		assert.ErrorIs(t, coupons.Save(ctx, dup), coupon.ErrDuplicateCode)

		found, err := coupons.FindByCode(ctx, "LINEN10")
		require.NoError(t, err)
		assert.Equal(t, c.ID(), found.ID())
	})

	t.Run("catalog lookups", func(t *testing.T) {
		productID := primitive.NewObjectID()
		userID := primitive.NewObjectID()
		_, err := db.Collection(productsCollection).InsertOne(ctx, bson.M{"_id": productID, "name": "Scarf", "category": "accessories"})
		require.NoError(t, err)
		_, err = db.Collection(usersCollection).InsertOne(ctx, bson.M{"_id": userID, "name": "Jane Doe", "email": "jane@example.com"})
		require.NoError(t, err)

		catalog := NewCatalog(db)
		categories, err := catalog.CategoriesOf(ctx, []string{productID.Hex(), "missing"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{productID.Hex(): "accessories"}, categories)

		profiles, err := catalog.FindByIDs(ctx, []string{userID.Hex()})
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", profiles[userID.Hex()].Name)
	})
}
