package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api"
	couponapi "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/health"
	orderapi "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/order"
	couponapp "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/application/coupon"
	orderapp "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/application/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/discovery"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/auth"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg     *config.Config
	backend *Backend
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithBackend uses an already opened backend instead of connecting from config
func (b *AppBuilder) WithBackend(backend *Backend) *AppBuilder {
	b.backend = backend
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	cfg := b.cfg
	logger.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("storage", cfg.Storage.Driver))

	backend := b.backend
	if backend == nil {
		var err error
		if backend, err = OpenBackend(ctx, cfg); err != nil {
			return nil, err
		}
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	orderService := orderapp.NewApplicationService(
		backend.Orders,
		backend.Cancellations,
		backend.Catalog,
		backend.UnitOfWork,
		cfg.App.Currency,
	)
	couponService := couponapp.NewApplicationService(
		backend.Coupons,
		backend.Catalog,
		backend.UnitOfWork,
		cfg.App.Currency,
	)

	router := api.NewRouter(cfg, tokens,
		health.NewController(cfg, backend.Pingers),
		orderapi.NewController(orderService),
		couponapi.NewController(couponService),
	)
	router.SetupRoutes()

	app := &App{
		config:  cfg,
		router:  router,
		backend: backend,
		server: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router.GetEngine(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	if cfg.Worker.Enabled {
		worker, err := outbox.NewWorker(
			backend.Outbox,
			backend.Publisher(cfg),
			cfg.Worker.PollInterval,
			cfg.Worker.BatchSize,
			cfg.Worker.MaxRetries,
		)
		if err != nil {
			_ = backend.Close(ctx)
			return nil, fmt.Errorf("failed to create outbox worker: %w", err)
		}
		worker.SetStaleAfter(cfg.Worker.StaleAfter)
		app.worker = worker
	}

	if cfg.Discovery.Enabled {
		registry, err := discovery.NewRegistry(cfg.Discovery)
		if err != nil {
			_ = backend.Close(ctx)
			return nil, err
		}
		app.registry = registry
	}

	return app, nil
}
