package api

import (
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/coupon"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/health"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/middleware"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	tokens           middleware.TokenParser
	healthController *health.Controller
	orderController  *order.Controller
	couponController *coupon.Controller
}

// NewRouter Create route configuration
func NewRouter(
	cfg *config.Config,
	tokens middleware.TokenParser,
	healthController *health.Controller,
	orderController *order.Controller,
	couponController *coupon.Controller,
) *Router {
	// Set Gin mode based on environment
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())     // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())      // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())       // 3. Logging middleware
	engine.Use(middleware.CORSMiddleware(&cfg.CORS)) // 4. CORS
	if cfg.Server.RateLimit.Enabled {
		engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. Rate limiting
	}

	return &Router{
		engine:           engine,
		config:           cfg,
		tokens:           tokens,
		healthController: healthController,
		orderController:  orderController,
		couponController: couponController,
	}
}

// SetupRoutes Set up all routes
// 认证和管理员校验按路由组挂载，健康检查不需要认证
func (r *Router) SetupRoutes() {
	authenticated := middleware.AuthMiddleware(r.tokens)
	admin := middleware.AdminMiddleware()

	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.orderController.RegisterRoutes(apiGroup, authenticated, admin)
		r.couponController.RegisterRoutes(apiGroup, authenticated, admin)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
