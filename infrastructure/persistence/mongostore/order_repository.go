package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/specification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// OrderRepository 订单集合；版本号字段实现乐观锁
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	doc := newOrderDoc(o)

	if o.IsNew() {
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return order.NewConcurrentModificationError(o.ID())
			}
			return err
		}
		o.ClearDirtyTracking()
		return nil
	}

	expected := doc.Version
	doc.Version = expected + 1
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": o.ID(), "version": expected}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": o.ID()})
		if err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.ID())
		}
		return order.NewConcurrentModificationError(o.ID())
	}
	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindByIDs(ctx context.Context, ids []string) ([]*order.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.find(ctx, bson.M{"user": userID}, options.Find().SetSort(newestFirst))
}

func (r *OrderRepository) List(ctx context.Context, spec shared.Specification[*order.Order], page shared.Page) ([]*order.Order, int64, error) {
	filter, err := specification.OrderBSON(spec)
	if err != nil {
		return nil, 0, err
	}
	page = page.Normalize()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	orders, err := r.find(ctx, filter, options.Find().
		SetSort(newestFirst).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit)))
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]*order.Order, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]*order.Order, len(docs))
	for i := range docs {
		orders[i] = docs[i].toDomain()
	}
	return orders, nil
}

func (r *OrderRepository) Remove(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return order.NewOrderNotFoundError(id)
	}
	return nil
}

var _ order.Repository = (*OrderRepository)(nil)
