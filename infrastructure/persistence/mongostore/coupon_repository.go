package mongostore

import (
	"context"
	"errors"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CouponRepository struct {
	coll *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{coll: db.Collection(couponsCollection)}
}

func (r *CouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	doc := newCouponDoc(c)

	if c.IsNew() {
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return coupon.NewDuplicateCodeError(c.Code())
			}
			return err
		}
		c.MarkPersisted()
		return nil
	}

	expected := doc.Version
	doc.Version = expected + 1
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID(), "version": expected}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return coupon.NewDuplicateCodeError(c.Code())
		}
		return err
	}
	if result.MatchedCount == 0 {
		return coupon.NewConcurrentModificationError(c.ID())
	}
	c.MarkPersisted()
	return nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*coupon.Coupon, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	return r.findOne(ctx, bson.M{"code": code}, code)
}

func (r *CouponRepository) findOne(ctx context.Context, filter bson.M, key string) (*coupon.Coupon, error) {
	var doc couponDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, coupon.NewCouponNotFoundError(key)
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CouponRepository) List(ctx context.Context) ([]*coupon.Coupon, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []couponDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	coupons := make([]*coupon.Coupon, len(docs))
	for i := range docs {
		coupons[i] = docs[i].toDomain()
	}
	return coupons, nil
}

func (r *CouponRepository) Remove(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return coupon.NewCouponNotFoundError(id)
	}
	return nil
}

var _ coupon.Repository = (*CouponRepository)(nil)
