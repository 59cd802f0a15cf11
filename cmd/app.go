package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/discovery"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/infrastructure/outbox"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// App 应用程序：HTTP 服务 + 可选的 gRPC 健康检查、outbox worker、etcd 注册
type App struct {
	config   *config.Config
	router   *api.Router
	server   *http.Server
	backend  *Backend
	worker   *outbox.Worker
	registry *discovery.Registry

	grpcServer *grpc.Server
	grpcHealth *grpchealth.Server
}

// Run 阻塞直到 ctx 取消或某个组件出错，然后优雅关闭
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.config.GRPC.Enabled {
		if err := a.startGRPC(errCh); err != nil {
			// HTTP 已在监听，需要一并关闭
			cancel()
			return errors.Join(err, a.Shutdown())
		}
	}

	if a.worker != nil {
		go func() {
			if err := a.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("outbox worker: %w", err)
			}
		}()
	}

	if a.registry != nil {
		instance := discovery.Instance{
			Name: a.config.Discovery.ServiceName,
			Host: a.config.Discovery.AdvertiseIP,
			Port: a.config.Server.Port,
		}
		if err := a.registry.Register(ctx, instance); err != nil {
			logger.Error("Service registration failed", zap.Error(err))
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Component failed, shutting down", zap.Error(runErr))
	}

	cancel()
	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) startGRPC(errCh chan<- error) error {
	lis, err := net.Listen("tcp", ":"+a.config.GRPC.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}

	a.grpcServer = grpc.NewServer()
	a.grpcHealth = grpchealth.NewServer()
	a.grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	a.grpcHealth.SetServingStatus(a.config.App.Name, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(a.grpcServer, a.grpcHealth)

	go func() {
		logger.Info("gRPC health server starting", zap.String("addr", lis.Addr().String()))
		if err := a.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	return nil
}

// Shutdown 先摘除注册与健康状态，再停服务，最后关存储
func (a *App) Shutdown() error {
	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.registry != nil {
		if err := a.registry.Deregister(ctx); err != nil {
			errs = append(errs, err)
		}
		_ = a.registry.Close()
	}
	if a.grpcHealth != nil {
		a.grpcHealth.Shutdown()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}
	if err := a.backend.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}

	logger.Info("Server stopped")
	return errors.Join(errs...)
}

// Handler 获取 HTTP 处理器（用于测试）
func (a *App) Handler() *gin.Engine {
	return a.router.GetEngine()
}
