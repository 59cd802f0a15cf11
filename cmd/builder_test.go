package cmd

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "storefront", Version: "test", Env: "test", Currency: "USD"},
		Server:  config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Auth:    config.AuthConfig{JWTSecret: "test-secret", Issuer: "storefront", TokenTTL: time.Hour},
		CORS:    config.CORSConfig{AllowOrigins: []string{"*"}},
		Worker:  config.WorkerConfig{Enabled: true, PollInterval: 50 * time.Millisecond, BatchSize: 10, MaxRetries: 3},
	}
}

func TestBuildMemoryApp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	app, err := NewBuilder(memoryConfig()).Build(ctx)
	require.NoError(t, err)
	require.NotNil(t, app.worker)
	assert.Nil(t, app.registry)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	app.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/mine", nil)
	app.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuildRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "cassandra"

	_, err := NewBuilder(cfg).Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestAppRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := memoryConfig()

	app, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestAppRunShutsDownWhenGRPCCannotListen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer occupied.Close()
	_, port, err := net.SplitHostPort(occupied.Addr().String())
	require.NoError(t, err)

	cfg := memoryConfig()
	cfg.GRPC = config.GRPCConfig{Enabled: true, Port: port}
	app, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grpc")
	case <-time.After(5 * time.Second):
		t.Fatal("app kept running after grpc listen failure")
	}

	// HTTP 服务已被关闭
	assert.ErrorIs(t, app.server.ListenAndServe(), http.ErrServerClosed)
}

func TestMemoryBackendPublisherFallsBackToLogging(t *testing.T) {
	backend, err := OpenBackend(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer backend.Close(context.Background())

	assert.Empty(t, backend.Pingers)
	payload, _ := json.Marshal(map[string]string{"id": "order-1"})
	assert.NoError(t, backend.Publisher(memoryConfig()).Publish(context.Background(), "order.placed", "order-1", payload))
}
