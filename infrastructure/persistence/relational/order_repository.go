package relational

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/relational/po"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/retry"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// OrderRepository GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Save inserts a new order or updates it guarded by version
// Note: Manually manage saving of orders and order items, do not use GORM associations
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if o.IsNew() {
			if err := tx.Create(orderPO).Error; err != nil {
				if retry.IsDuplicateKey(err) {
					return order.NewConcurrentModificationError(o.ID())
				}
				return err
			}
			return r.replaceItems(tx, o.ID(), itemPOs)
		}

		expected := orderPO.Version
		orderPO.Version = expected + 1
		result := tx.Model(&po.OrderPO{}).
			Where("id = ? AND version = ?", o.ID(), expected).
			Select("*").Omit("id", "created_at").
			Updates(orderPO)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return order.NewOrderNotFoundError(o.ID())
			}
			return order.NewConcurrentModificationError(o.ID())
		}
		return r.replaceItems(tx, o.ID(), itemPOs)
	})
	if err != nil {
		return err
	}

	if !o.IsNew() {
		o.IncrementVersionForSave()
	}
	o.ClearDirtyTracking()
	return nil
}

// replaceItems simple strategy: delete then insert
func (r *OrderRepository) replaceItems(tx *gorm.DB, orderID string, itemPOs []po.OrderItemPO) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&po.OrderItemPO{}).Error; err != nil {
		return err
	}
	if len(itemPOs) == 0 {
		return nil
	}
	return tx.Create(&itemPOs).Error
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := conn(ctx, r.db)
	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}

	orders, err := r.hydrate(db, []po.OrderPO{orderPO})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) FindByIDs(ctx context.Context, ids []string) ([]*order.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := conn(ctx, r.db)
	var orderPOs []po.OrderPO
	if err := db.Where("id IN ?", ids).Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.hydrate(db, orderPOs)
}

// FindByUserID newest first
func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	db := conn(ctx, r.db)
	var orderPOs []po.OrderPO
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.hydrate(db, orderPOs)
}

func (r *OrderRepository) List(ctx context.Context, spec shared.Specification[*order.Order], page shared.Page) ([]*order.Order, int64, error) {
	cond, err := specification.OrderSQL(spec)
	if err != nil {
		return nil, 0, err
	}
	page = page.Normalize()
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&po.OrderPO{}).Scopes(cond.Scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orderPOs []po.OrderPO
	if err := db.Scopes(cond.Scope).
		Order("created_at DESC, id DESC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&orderPOs).Error; err != nil {
		return nil, 0, err
	}
	orders, err := r.hydrate(db, orderPOs)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// hydrate 一次查询取回所有订单的明细（不用 Preload，保持聚合边界清晰）
func (r *OrderRepository) hydrate(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}
	ids := make([]string, len(orderPOs))
	for i, p := range orderPOs {
		ids[i] = p.ID
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("order_id, position").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
	}
	return orders, nil
}

// Remove physically deletes the order and its items
func (r *OrderRepository) Remove(ctx context.Context, id string) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&po.OrderPO{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return order.NewOrderNotFoundError(id)
		}
		return nil
	})
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
