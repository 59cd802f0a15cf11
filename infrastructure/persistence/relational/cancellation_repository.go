package relational

import (
	"context"
	"errors"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/relational/po"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/retry"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// CancellationRepository 台账仓储；pending_order_id 唯一索引冲突翻译为 ErrAlreadyPending
type CancellationRepository struct {
	db *gorm.DB
}

func NewCancellationRepository(db *gorm.DB) *CancellationRepository {
	return &CancellationRepository{db: db}
}

func (r *CancellationRepository) Save(ctx context.Context, req *cancellation.Request) error {
	p := po.FromCancellationDomain(req)
	db := conn(ctx, r.db)

	if req.IsNew() {
		if err := db.Create(p).Error; err != nil {
			return r.translate(err, req)
		}
		req.MarkPersisted()
		return nil
	}

	expected := p.Version
	p.Version = expected + 1
	result := db.Model(&po.CancellationRequestPO{}).
		Where("id = ? AND version = ?", req.ID(), expected).
		Select("*").Omit("id", "created_at").
		Updates(p)
	if result.Error != nil {
		return r.translate(result.Error, req)
	}
	if result.RowsAffected == 0 {
		return cancellation.NewConcurrentModificationError(req.ID())
	}
	req.MarkPersisted()
	return nil
}

func (r *CancellationRepository) translate(err error, req *cancellation.Request) error {
	if retry.IsDuplicateKey(err) {
		if req.Status() == cancellation.StatusPending {
			return cancellation.NewAlreadyPendingError(req.OrderID())
		}
		return cancellation.NewConcurrentModificationError(req.ID())
	}
	return err
}

func (r *CancellationRepository) FindPendingByOrderID(ctx context.Context, orderID string) (*cancellation.Request, error) {
	var p po.CancellationRequestPO
	err := conn(ctx, r.db).First(&p, "pending_order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cancellation.NewRequestNotFoundError(orderID)
		}
		return nil, err
	}
	return p.ToDomain(), nil
}

// List newest first
func (r *CancellationRepository) List(ctx context.Context, spec shared.Specification[*cancellation.Request]) ([]*cancellation.Request, error) {
	cond, err := specification.CancellationSQL(spec)
	if err != nil {
		return nil, err
	}
	var rows []po.CancellationRequestPO
	if err := conn(ctx, r.db).Scopes(cond.Scope).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	requests := make([]*cancellation.Request, len(rows))
	for i := range rows {
		requests[i] = rows[i].ToDomain()
	}
	return requests, nil
}

func (r *CancellationRepository) RemoveByOrderID(ctx context.Context, orderID string) error {
	return conn(ctx, r.db).Where("order_id = ?", orderID).Delete(&po.CancellationRequestPO{}).Error
}

var _ cancellation.Repository = (*CancellationRepository)(nil)
