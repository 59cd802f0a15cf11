package mongostore

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Catalog 只读访问 products / users 集合
type Catalog struct {
	products *mongo.Collection
	users    *mongo.Collection
}

func NewCatalog(db *mongo.Database) *Catalog {
	return &Catalog{
		products: db.Collection(productsCollection),
		users:    db.Collection(usersCollection),
	}
}

func (c *Catalog) CategoriesOf(ctx context.Context, productIDs []string) (map[string]string, error) {
	result := make(map[string]string, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	cursor, err := c.products.Find(ctx,
		bson.M{"_id": bson.M{"$in": objectIDs(productIDs)}},
		options.Find().SetProjection(bson.M{"category": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		result[doc.ID.Hex()] = doc.Category
	}
	return result, nil
}

func (c *Catalog) FindByIDs(ctx context.Context, ids []string) (map[string]user.Profile, error) {
	result := make(map[string]user.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := c.users.Find(ctx,
		bson.M{"_id": bson.M{"$in": objectIDs(ids)}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1, "isAdmin": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		id := doc.ID.Hex()
		result[id] = user.Profile{ID: id, Name: doc.Name, Email: doc.Email, IsAdmin: doc.IsAdmin}
	}
	return result, nil
}

var (
	_ coupon.CategoryResolver = (*Catalog)(nil)
	_ user.Directory          = (*Catalog)(nil)
)
