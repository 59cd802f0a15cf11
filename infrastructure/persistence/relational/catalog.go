package relational

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/relational/po"

	"gorm.io/gorm"
)

// Catalog 只读查询商品分类和用户资料，表由外部系统维护
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) CategoriesOf(ctx context.Context, productIDs []string) (map[string]string, error) {
	result := make(map[string]string, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var rows []po.ProductPO
	if err := conn(ctx, c.db).Select("id", "category").Where("id IN ?", productIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row.Category
	}
	return result, nil
}

func (c *Catalog) FindByIDs(ctx context.Context, ids []string) (map[string]user.Profile, error) {
	result := make(map[string]user.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []po.UserPO
	if err := conn(ctx, c.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = user.Profile{ID: row.ID, Name: row.Name, Email: row.Email, IsAdmin: row.IsAdmin}
	}
	return result, nil
}

var (
	_ coupon.CategoryResolver = (*Catalog)(nil)
	_ user.Directory          = (*Catalog)(nil)
)
