package po

import "time"

// ProductPO 商品目录的只读投影，本服务只读取分类用于优惠券资格判断
type ProductPO struct {
	ID        string `gorm:"primaryKey;size:24"`
	Name      string `gorm:"size:255"`
	Category  string `gorm:"size:128;index"`
	UpdatedAt time.Time
}

// TableName Specify table name
func (ProductPO) TableName() string {
	return "products"
}

// UserPO 用户资料的只读投影
type UserPO struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:255"`
	Email     string `gorm:"size:255;index"`
	IsAdmin   bool   `gorm:"not null;default:false"`
	UpdatedAt time.Time
}

// TableName Specify table name
func (UserPO) TableName() string {
	return "users"
}
