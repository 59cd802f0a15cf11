package relational

import (
	"context"
	"errors"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/relational/po"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// CouponRepository 优惠券仓储；code 唯一索引
type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	p := po.FromCouponDomain(c)
	db := conn(ctx, r.db)

	if c.IsNew() {
		if err := db.Create(p).Error; err != nil {
			if retry.IsDuplicateKey(err) {
				return coupon.NewDuplicateCodeError(c.Code())
			}
			return err
		}
		c.MarkPersisted()
		return nil
	}

	expected := p.Version
	p.Version = expected + 1
	result := db.Model(&po.CouponPO{}).
		Where("id = ? AND version = ?", c.ID(), expected).
		Select("*").Omit("id", "created_at").
		Updates(p)
	if result.Error != nil {
		if retry.IsDuplicateKey(result.Error) {
			return coupon.NewDuplicateCodeError(c.Code())
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return coupon.NewConcurrentModificationError(c.ID())
	}
	c.MarkPersisted()
	return nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*coupon.Coupon, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	return r.findOne(ctx, "code = ?", code)
}

func (r *CouponRepository) findOne(ctx context.Context, query string, value string) (*coupon.Coupon, error) {
	var p po.CouponPO
	if err := conn(ctx, r.db).First(&p, query, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coupon.NewCouponNotFoundError(value)
		}
		return nil, err
	}
	return p.ToDomain(), nil
}

func (r *CouponRepository) List(ctx context.Context) ([]*coupon.Coupon, error) {
	var rows []po.CouponPO
	if err := conn(ctx, r.db).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	coupons := make([]*coupon.Coupon, len(rows))
	for i := range rows {
		coupons[i] = rows[i].ToDomain()
	}
	return coupons, nil
}

func (r *CouponRepository) Remove(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&po.CouponPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return coupon.NewCouponNotFoundError(id)
	}
	return nil
}

var _ coupon.Repository = (*CouponRepository)(nil)
