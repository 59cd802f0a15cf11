package po

import (
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
)

// CancellationRequestPO 台账行
// PendingOrderID 只在 Pending 时等于 OrderID，其余状态为 NULL；
// 唯一索引允许多个 NULL，于是"每单最多一个 Pending"由数据库保证
type CancellationRequestPO struct {
	ID             string  `gorm:"primaryKey;size:64"`
	OrderID        string  `gorm:"size:64;index;not null"`
	PendingOrderID *string `gorm:"size:64;uniqueIndex:uk_cancellation_pending_order"`
	UserID         string  `gorm:"size:64;index;not null"`
	Reason         string  `gorm:"size:1000;not null"`
	Status         string  `gorm:"size:20;index;not null"`
	AdminNote      string  `gorm:"size:1000"`
	ProcessedBy    string  `gorm:"size:64"`
	ProcessedAt    *time.Time
	Version        int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

// TableName Specify table name
func (CancellationRequestPO) TableName() string {
	return "cancellation_requests"
}

func FromCancellationDomain(r *cancellation.Request) *CancellationRequestPO {
	dto := r.Snapshot()
	p := &CancellationRequestPO{
		ID:          dto.ID,
		OrderID:     dto.OrderID,
		UserID:      dto.UserID,
		Reason:      dto.Reason,
		Status:      string(dto.Status),
		AdminNote:   dto.AdminNote,
		ProcessedBy: dto.ProcessedBy,
		ProcessedAt: dto.ProcessedAt,
		Version:     dto.Version,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
	if dto.Status == cancellation.StatusPending {
		orderID := dto.OrderID
		p.PendingOrderID = &orderID
	}
	return p
}

func (p *CancellationRequestPO) ToDomain() *cancellation.Request {
	return cancellation.RebuildFromDTO(cancellation.ReconstructionDTO{
		ID:          p.ID,
		OrderID:     p.OrderID,
		UserID:      p.UserID,
		Reason:      p.Reason,
		Status:      cancellation.Status(p.Status),
		AdminNote:   p.AdminNote,
		ProcessedBy: p.ProcessedBy,
		ProcessedAt: p.ProcessedAt,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
}
