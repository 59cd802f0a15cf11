package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api"
	couponapi "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/health"
	orderapi "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/order"
	couponapp "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/application/coupon"
	orderapp "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/application/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/user"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/persistence/mocks"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
}

type server struct {
	engine     *gin.Engine
	ownerToken string
	otherToken string
	adminToken string
}

func newServer(t *testing.T, backends map[string]health.Pinger) *server {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "storefront", Version: "test", Env: "test", Currency: "USD"},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		CORS:    config.CORSConfig{AllowOrigins: []string{"*"}},
	}

	store := mocks.NewStore()
	store.SeedUser(user.Profile{ID: "user-1", Name: "Jane Doe", Email: "jane@example.com"})
	store.SeedUser(user.Profile{ID: "admin-1", Name: "Admin", IsAdmin: true})
	catalog := mocks.NewMockCatalog(store)
	uow := mocks.NewMockUnitOfWorkFactory(store)

	orders := orderapp.NewApplicationService(
		mocks.NewMockOrderRepository(store),
		mocks.NewMockCancellationRepository(store),
		catalog, uow, "USD",
	)
	coupons := couponapp.NewApplicationService(mocks.NewMockCouponRepository(store), catalog, uow, "USD")

	tokens, err := auth.NewTokenService("test-secret", "storefront", time.Hour)
	require.NoError(t, err)

	router := api.NewRouter(cfg, tokens,
		health.NewController(cfg, backends),
		orderapi.NewController(orders),
		couponapi.NewController(coupons),
	)
	router.SetupRoutes()

	s := &server{engine: router.GetEngine()}
	s.ownerToken, _ = tokens.Issue(shared.Principal{ID: "user-1"})
	s.otherToken, _ = tokens.Issue(shared.Principal{ID: "user-2"})
	s.adminToken, _ = tokens.Issue(shared.Principal{ID: "admin-1", IsAdmin: true})
	return s
}

func (s *server) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func orderBody(method string) map[string]any {
	return map[string]any{
		"orderItems": []map[string]any{
			{"product": "64b7f0c2a1d3e4f5a6b7c8d9", "name": "Denim Jacket", "price": 50, "qty": 2, "size": "M"},
		},
		"shippingAddress": map[string]any{"street": "1 Main St", "city": "Springfield", "postalCode": "62701", "country": "US"},
		"paymentMethod":   method,
		"itemsPrice":      100,
		"taxPrice":        0,
		"shippingPrice":   0,
		"totalPrice":      100,
	}
}

func (s *server) createOrder(t *testing.T, method string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/orders", s.ownerToken, orderBody(method))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func TestOrderRoutes(t *testing.T) {
	s := newServer(t, nil)

	w, _ := s.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("Card"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/orders", s.ownerToken, map[string]any{"paymentMethod": "Card"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	id := s.createOrder(t, "Card")

	w, _ = s.do(t, http.MethodGet, "/api/v1/orders/"+id, s.ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, http.MethodGet, "/api/v1/orders/"+id, s.otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error)
	w, env = s.do(t, http.MethodGet, "/api/v1/orders/64b7f0c2a1d3e4f5a6b7c8d9", s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error)

	w, _ = s.do(t, http.MethodGet, "/api/v1/orders/mine", s.ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 管理员路由
	w, _ = s.do(t, http.MethodGet, "/api/v1/orders", s.ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/orders?page=1&pageSize=10", s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodPut, "/api/v1/orders/"+id+"/pay", s.ownerToken,
		map[string]any{"id": "pay_1", "status": "COMPLETED", "update_time": "2024-01-01", "email_address": "jane@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paid orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &paid))
	require.NotNil(t, paid.PaymentResult)
	assert.Equal(t, "2024-01-01", paid.PaymentResult.UpdateTime.Format("2006-01-02"))

	w, env = s.do(t, http.MethodPut, "/api/v1/orders/"+id+"/mark-paid", s.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_OPERATION", env.Error)

	w, _ = s.do(t, http.MethodPut, "/api/v1/orders/"+id+"/status", s.adminToken, map[string]any{"status": "Shipped"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancellationRoutes(t *testing.T) {
	s := newServer(t, nil)
	id := s.createOrder(t, "Card")

	w, env := s.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel-request", s.ownerToken, map[string]any{"reason": "Changed my mind"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created orderapp.CancellationCreatedResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.CancellationID)

	w, env = s.do(t, http.MethodPost, "/api/v1/orders/"+id+"/cancel-request", s.ownerToken, map[string]any{"reason": "Again"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)

	w, _ = s.do(t, http.MethodPut, "/api/v1/orders/"+id+"/cancel-process", s.adminToken, map[string]any{"decision": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/orders/cancellations?status=pending", s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/v1/orders/"+id+"/cancel-process", s.adminToken,
		map[string]any{"decision": "Approved", "adminNote": "ok"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodPut, "/api/v1/orders/"+id+"/status", s.adminToken, map[string]any{"status": "Shipped"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_ORDER_STATE", env.Error)

	w, _ = s.do(t, http.MethodGet, "/api/v1/orders/cancellations/export", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	book, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	sheet := book.Sheet["Cancellations"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, id, sheet.Rows[1].Cells[1].String())
	assert.Equal(t, "Approved", sheet.Rows[1].Cells[7].String())

	w, _ = s.do(t, http.MethodDelete, "/api/v1/orders/"+id, s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/orders/"+id, s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrderWithoutBody(t *testing.T) {
	s := newServer(t, nil)
	id := s.createOrder(t, "Card")

	w, env := s.do(t, http.MethodPut, "/api/v1/orders/"+id+"/cancel", s.ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cancelled orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, "Cancelled", cancelled.Status)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, "Cancelled by user", cancelled.Cancellation.Reason)
}

func TestCancelOrderChunkedBodyKeepsReason(t *testing.T) {
	s := newServer(t, nil)
	id := s.createOrder(t, "Card")

	// 未知长度的请求体，ContentLength 为 -1
	body := io.MultiReader(strings.NewReader(`{"reason":"Ordered the wrong size"}`))
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+id+"/cancel", body)
	require.Equal(t, int64(-1), req.ContentLength)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.ownerToken)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var cancelled orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, "Ordered the wrong size", cancelled.Cancellation.Reason)
}

func TestCouponRoutes(t *testing.T) {
	s := newServer(t, nil)

	w, _ := s.do(t, http.MethodPost, "/api/v1/coupons", s.ownerToken, map[string]any{"code": "starry20", "discountPercent": 20, "isGlobal": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/coupons", s.adminToken, map[string]any{"code": "starry20", "discountPercent": 20, "isGlobal": true, "maxUses": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created couponapp.CouponResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	for _, path := range []string{"/api/v1/payment/validate-coupon", "/api/v1/coupons/validate"} {
		w, env = s.do(t, http.MethodPost, path, s.ownerToken, map[string]any{"code": "STARRY20", "cartTotal": 100})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result couponapp.ValidateCouponResponse
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.True(t, result.Valid)
		assert.InDelta(t, 20.0, result.DiscountAmount, 0.001)
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/coupons/"+created.ID, s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/coupons/STARRY20/redeem", s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(t, http.MethodPost, "/api/v1/coupons/STARRY20/redeem", s.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "COUPON_UNAVAILABLE", env.Error)

	w, env = s.do(t, http.MethodPost, "/api/v1/coupons/validate", s.ownerToken, map[string]any{"code": "NOPE", "cartTotal": 100})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COUPON_NOT_FOUND", env.Error)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/coupons/"+created.ID, s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthRoutes(t *testing.T) {
	healthy := newServer(t, map[string]health.Pinger{
		"mongo": health.PingFunc(func(context.Context) error { return nil }),
	})
	w, _ := healthy.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mongo"`)

	down := newServer(t, map[string]health.Pinger{
		"redis": health.PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	w, _ = down.do(t, http.MethodGet, "/api/v1/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w, _ = down.do(t, http.MethodGet, "/api/v1/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
