package relational

import (
	"context"
	"fmt"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/relational/po"

	"gorm.io/gorm"
)

// OutboxRepository GORM implementation of the outbox table
// Implements transactional outbox pattern for reliable domain event publishing
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository Create outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// SaveEvent Save domain event to outbox table
// Uses transaction from context when called within UoW.Execute()
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	record, err := outbox.NewRecord(event)
	if err != nil {
		return err
	}
	if err := conn(ctx, r.db).Create(po.FromOutboxRecord(record)).Error; err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// FetchPending oldest first
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []po.OutboxEventPO
	err := conn(ctx, r.db).Where("status = ?", string(outbox.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}

	records := make([]outbox.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToRecord()
	}
	return records, nil
}

// MarkProcessing 条件更新实现抢占，多个 worker 并发时只有一个成功
func (r *OutboxRepository) MarkProcessing(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", id, string(outbox.StatusPending)).
		Updates(map[string]interface{}{
			"status":     string(outbox.StatusProcessing),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", id)
	}
	return nil
}

// MarkPublished Mark event as successfully published
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(outbox.StatusPublished),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", id)
	}
	return nil
}

// MarkFailed Increments retry count; the row returns to PENDING until retries run out
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, reason string, maxRetries int) error {
	db := conn(ctx, r.db)

	var row po.OutboxEventPO
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	retries := row.RetryCount + 1
	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      string(outbox.NextStatus(retries, maxRetries)),
			"retry_count": retries,
			"last_error":  outbox.TruncateError(reason),
			"updated_at":  time.Now().UTC(),
		}).Error
}

// ReclaimStale Reset PROCESSING rows abandoned by a crashed worker back to PENDING
func (r *OutboxRepository) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("status = ? AND updated_at < ?", string(outbox.StatusProcessing), cutoff).
		Updates(map[string]interface{}{
			"status":     string(outbox.StatusPending),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reclaim stale events: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Compile-time interface implementation check
var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
