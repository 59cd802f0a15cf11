package mongostore

import (
	"context"
	"errors"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/specification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CancellationRepository 台账集合；唯一部分索引冲突翻译为 ErrAlreadyPending
type CancellationRepository struct {
	coll *mongo.Collection
}

func NewCancellationRepository(db *mongo.Database) *CancellationRepository {
	return &CancellationRepository{coll: db.Collection(cancellationsCollection)}
}

func (r *CancellationRepository) Save(ctx context.Context, req *cancellation.Request) error {
	doc := newCancellationDoc(req)

	if req.IsNew() {
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			return r.translate(err, req)
		}
		req.MarkPersisted()
		return nil
	}

	expected := doc.Version
	doc.Version = expected + 1
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": req.ID(), "version": expected}, doc)
	if err != nil {
		return r.translate(err, req)
	}
	if result.MatchedCount == 0 {
		return cancellation.NewConcurrentModificationError(req.ID())
	}
	req.MarkPersisted()
	return nil
}

func (r *CancellationRepository) translate(err error, req *cancellation.Request) error {
	if mongo.IsDuplicateKeyError(err) {
		if req.IsPending() {
			return cancellation.NewAlreadyPendingError(req.OrderID())
		}
		return cancellation.NewConcurrentModificationError(req.ID())
	}
	return err
}

func (r *CancellationRepository) FindPendingByOrderID(ctx context.Context, orderID string) (*cancellation.Request, error) {
	var doc cancellationDoc
	err := r.coll.FindOne(ctx, bson.M{"order": orderID, "status": string(cancellation.StatusPending)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cancellation.NewRequestNotFoundError(orderID)
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CancellationRepository) List(ctx context.Context, spec shared.Specification[*cancellation.Request]) ([]*cancellation.Request, error) {
	filter, err := specification.CancellationBSON(spec)
	if err != nil {
		return nil, err
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []cancellationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	requests := make([]*cancellation.Request, len(docs))
	for i := range docs {
		requests[i] = docs[i].toDomain()
	}
	return requests, nil
}

func (r *CancellationRepository) RemoveByOrderID(ctx context.Context, orderID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"order": orderID})
	return err
}

var _ cancellation.Repository = (*CancellationRepository)(nil)
