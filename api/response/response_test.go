package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func render(err error) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Set(RequestIDKey, "req-1")
	HandleAppError(c, err)

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestHandleAppErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", order.NewOrderNotFoundError("o-1"), http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"forbidden", order.NewAccessDeniedError("o-1"), http.StatusForbidden, "FORBIDDEN"},
		{"invalid transition", order.NewInvalidOrderStateError(order.StatusDelivered, order.StatusShipped), http.StatusConflict, "INVALID_ORDER_STATE"},
		{"already pending", cancellation.NewAlreadyPendingError("o-1"), http.StatusConflict, "CANCELLATION_ALREADY_PENDING"},
		{"invalid operation", order.NewNotCashOnDeliveryError(order.PaymentCard), http.StatusBadRequest, "INVALID_OPERATION"},
		{"validation", shared.NewValidationError("order", "qty", "bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthorized", shared.NewUnauthorizedError("no token"), http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := render(tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, body.Error)
			assert.Equal(t, "req-1", body.RequestID)
			assert.False(t, body.Success)
		})
	}
}

func TestHandleAppErrorMasksInternal(t *testing.T) {
	w, body := render(errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 41)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPagination(1, 0, 5).TotalPages)
}
