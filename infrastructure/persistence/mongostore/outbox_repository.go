package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OutboxRepository outbox_events 集合；在会话上下文中调用时随事务提交
type OutboxRepository struct {
	coll *mongo.Collection
}

func NewOutboxRepository(db *mongo.Database) *OutboxRepository {
	return &OutboxRepository{coll: db.Collection(outboxCollection)}
}

func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	record, err := outbox.NewRecord(event)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, newOutboxDoc(record)); err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"status": string(outbox.StatusPending)},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []outboxDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	records := make([]outbox.Record, len(docs))
	for i := range docs {
		records[i] = docs[i].toRecord()
	}
	return records, nil
}

// MarkProcessing 以 status 作为条件更新，保证只有一个 worker 抢到
func (r *OutboxRepository) MarkProcessing(ctx context.Context, id string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(outbox.StatusPending)},
		bson.M{"$set": bson.M{"status": string(outbox.StatusProcessing), "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("event not found or already being processed: %s", id)
	}
	return nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(outbox.StatusPublished), "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("event not found: %s", id)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, reason string, maxRetries int) error {
	var doc outboxDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	retries := doc.RetryCount + 1
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     string(outbox.NextStatus(retries, maxRetries)),
			"retryCount": retries,
			"lastError":  outbox.TruncateError(reason),
			"updatedAt":  time.Now().UTC(),
		}})
	return err
}

// ReclaimStale 按 updatedAt 找回崩溃 worker 遗留的 PROCESSING 事件
func (r *OutboxRepository) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.coll.UpdateMany(ctx,
		bson.M{"status": string(outbox.StatusProcessing), "updatedAt": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"status": string(outbox.StatusPending), "updatedAt": time.Now().UTC()}})
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim stale events: %w", err)
	}
	return result.ModifiedCount, nil
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
