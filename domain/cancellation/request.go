/*
Package cancellation models the cancellation request ledger: one row per
request or direct cancel, referencing an order and the requesting user.

At most one Pending row may exist per order. The storage layer enforces this
with a unique constraint; repositories translate violations into
ErrAlreadyPending.
*/
package cancellation

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/google/uuid"
)

// Status 台账行状态，同时用于订单内嵌的取消摘要
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// SupersededNote 直接取消时关闭已有待处理申请所用的备注
const SupersededNote = "superseded by direct cancellation"

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseStatus 宽松解析（忽略大小写），用于列表过滤参数
func ParseStatus(value string) (Status, bool) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(strings.TrimSpace(value), string(s)) {
			return s, true
		}
	}
	return "", false
}

// ParseDecision 管理员决策只接受 Approved / Rejected
func ParseDecision(value string) (Status, error) {
	s, ok := ParseStatus(value)
	if !ok || s == StatusPending {
		return "", NewInvalidDecisionError(value)
	}
	return s, nil
}

// Request 取消申请聚合根
type Request struct {
	id          string
	orderID     string
	userID      string
	reason      string
	status      Status
	adminNote   string
	processedBy string // 空表示非管理员发起的直接取消
	processedAt *time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time

	events []shared.DomainEvent
	isNew  bool
}

// NewRequest 用户发起取消申请，状态 Pending
func NewRequest(orderID, userID, reason string) (*Request, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, NewReasonRequiredError()
	}
	r, err := newRequest(orderID, userID, reason, StatusPending)
	if err != nil {
		return nil, err
	}
	r.events = append(r.events, NewRequestedEvent(r.id, orderID, userID, reason))
	return r, nil
}

// NewApprovedRequest 直接取消产生的台账行，跳过 Pending 阶段。
// processedBy 只在操作者为管理员时填写。
func NewApprovedRequest(orderID, userID, reason, processedBy string) (*Request, error) {
	r, err := newRequest(orderID, userID, reason, StatusApproved)
	if err != nil {
		return nil, err
	}
	now := r.createdAt
	r.processedBy = processedBy
	r.processedAt = &now
	r.events = append(r.events, NewProcessedEvent(r.id, orderID, StatusApproved, processedBy, true))
	return r, nil
}

func newRequest(orderID, userID, reason string, status Status) (*Request, error) {
	if orderID == "" {
		return nil, shared.NewValidationError(entityName, "orderId", "order reference is required")
	}
	if userID == "" {
		return nil, shared.NewValidationError(entityName, "userId", "user reference is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cancellation request ID: %w", err)
	}
	now := time.Now().UTC()
	return &Request{
		id:        id.String(),
		orderID:   orderID,
		userID:    userID,
		reason:    reason,
		status:    status,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}, nil
}

// Decide 管理员处理待处理申请
func (r *Request) Decide(decision Status, note, adminID string) error {
	if decision != StatusApproved && decision != StatusRejected {
		return NewInvalidDecisionError(string(decision))
	}
	if adminID == "" {
		return shared.NewValidationError(entityName, "processedBy", "processing admin is required")
	}
	return r.close(decision, note, adminID, false)
}

// Supersede 直接取消时就地批准已有的待处理申请
func (r *Request) Supersede(processedBy string) error {
	return r.close(StatusApproved, SupersededNote, processedBy, true)
}

func (r *Request) close(decision Status, note, processedBy string, direct bool) error {
	if r.status != StatusPending {
		return NewAlreadyDecidedError(r.id, r.status)
	}
	now := time.Now().UTC()
	r.status = decision
	r.adminNote = strings.TrimSpace(note)
	r.processedBy = processedBy
	r.processedAt = &now
	r.updatedAt = now
	r.events = append(r.events, NewProcessedEvent(r.id, r.orderID, decision, processedBy, direct))
	return nil
}

// ReconstructionDTO 仅供仓储层重建聚合使用
type ReconstructionDTO struct {
	ID          string
	OrderID     string
	UserID      string
	Reason      string
	Status      Status
	AdminNote   string
	ProcessedBy string
	ProcessedAt *time.Time
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Request {
	return &Request{
		id:          dto.ID,
		orderID:     dto.OrderID,
		userID:      dto.UserID,
		reason:      dto.Reason,
		status:      dto.Status,
		adminNote:   dto.AdminNote,
		processedBy: dto.ProcessedBy,
		processedAt: dto.ProcessedAt,
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}

// Snapshot exports the aggregate state for persistence adapters
func (r *Request) Snapshot() ReconstructionDTO {
	return ReconstructionDTO{
		ID:          r.id,
		OrderID:     r.orderID,
		UserID:      r.userID,
		Reason:      r.reason,
		Status:      r.status,
		AdminNote:   r.adminNote,
		ProcessedBy: r.processedBy,
		ProcessedAt: r.processedAt,
		Version:     r.version,
		CreatedAt:   r.createdAt,
		UpdatedAt:   r.updatedAt,
	}
}

func (r *Request) ID() string              { return r.id }
func (r *Request) OrderID() string         { return r.orderID }
func (r *Request) UserID() string          { return r.userID }
func (r *Request) Reason() string          { return r.reason }
func (r *Request) Status() Status          { return r.status }
func (r *Request) AdminNote() string       { return r.adminNote }
func (r *Request) ProcessedBy() string     { return r.processedBy }
func (r *Request) ProcessedAt() *time.Time { return r.processedAt }
func (r *Request) Version() int            { return r.version }
func (r *Request) CreatedAt() time.Time    { return r.createdAt }
func (r *Request) UpdatedAt() time.Time    { return r.updatedAt }
func (r *Request) IsNew() bool             { return r.isNew }
func (r *Request) IsPending() bool         { return r.status == StatusPending }

// MarkPersisted 仓储保存成功后调用
func (r *Request) MarkPersisted() {
	if !r.isNew {
		r.version++
	}
	r.isNew = false
}

func (r *Request) PullEvents() []shared.DomainEvent {
	events := r.events
	r.events = nil
	return events
}

var _ shared.AggregateRoot = (*Request)(nil)
