package cancellation

import (
	"testing"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	r, err := NewRequest("order-1", "user-1", "  wrong colour ")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, r.Status())
	assert.Equal(t, "wrong colour", r.Reason())
	assert.Empty(t, r.ProcessedBy())
	assert.Nil(t, r.ProcessedAt())
	assert.True(t, r.IsNew())

	events := r.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "cancellation.requested", events[0].EventName())
}

func TestNewRequestRequiresReason(t *testing.T) {
	_, err := NewRequest("order-1", "user-1", " ")
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDecide(t *testing.T) {
	r, err := NewRequest("order-1", "user-1", "late delivery")
	require.NoError(t, err)
	r.PullEvents()

	require.NoError(t, r.Decide(StatusApproved, "refund issued", "admin-1"))
	assert.Equal(t, StatusApproved, r.Status())
	assert.Equal(t, "admin-1", r.ProcessedBy())
	assert.NotNil(t, r.ProcessedAt())
	assert.Equal(t, "refund issued", r.AdminNote())

	err = r.Decide(StatusRejected, "", "admin-2")
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	assert.ErrorIs(t, err, shared.ErrConflict)

	events := r.PullEvents()
	require.Len(t, events, 1)
	processed := events[0].(*ProcessedEvent)
	assert.Equal(t, StatusApproved, processed.Decision)
	assert.False(t, processed.Direct)
}

func TestDecideValidatesInput(t *testing.T) {
	r, err := NewRequest("order-1", "user-1", "late delivery")
	require.NoError(t, err)

	assert.ErrorIs(t, r.Decide(StatusPending, "", "admin-1"), ErrInvalidDecision)
	assert.ErrorIs(t, r.Decide(StatusApproved, "", ""), shared.ErrInvalidInput)
	assert.True(t, r.IsPending())
}

func TestSupersede(t *testing.T) {
	r, err := NewRequest("order-1", "user-1", "late delivery")
	require.NoError(t, err)

	require.NoError(t, r.Supersede(""))
	assert.Equal(t, StatusApproved, r.Status())
	assert.Equal(t, SupersededNote, r.AdminNote())
	assert.Empty(t, r.ProcessedBy())
	assert.NotNil(t, r.ProcessedAt())
}

func TestNewApprovedRequest(t *testing.T) {
	byOwner, err := NewApprovedRequest("order-1", "user-1", "Cancelled by user", "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, byOwner.Status())
	assert.Empty(t, byOwner.ProcessedBy())
	assert.NotNil(t, byOwner.ProcessedAt())

	byAdmin, err := NewApprovedRequest("order-1", "user-1", "fraud", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", byAdmin.ProcessedBy())
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, d)

	for _, bad := range []string{"", "Pending", "maybe"} {
		_, err := ParseDecision(bad)
		assert.ErrorIs(t, err, ErrInvalidDecision, bad)
	}
}

func TestMarkPersisted(t *testing.T) {
	r, err := NewRequest("order-1", "user-1", "reason")
	require.NoError(t, err)

	r.MarkPersisted()
	assert.False(t, r.IsNew())
	assert.Equal(t, 0, r.Version())

	r.MarkPersisted()
	assert.Equal(t, 1, r.Version())
}
