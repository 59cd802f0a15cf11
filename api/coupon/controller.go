// Package coupon 优惠券 API：折扣校验、后台管理和核销
package coupon

import (
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/ctxutil"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/response"
	couponapp "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/application/coupon"

	"github.com/gin-gonic/gin"
)

// Controller 优惠券控制器
type Controller struct {
	couponService *couponapp.ApplicationService
}

// NewController 创建优惠券控制器
func NewController(couponService *couponapp.ApplicationService) *Controller {
	return &Controller{couponService: couponService}
}

// RegisterRoutes 注册优惠券路由
// gin 要求同一位置的通配符同名，所以核销路由也用 :id 承载券码
func (c *Controller) RegisterRoutes(router *gin.RouterGroup, authenticated, admin gin.HandlerFunc) {
	router.POST("/payment/validate-coupon", authenticated, c.Validate)

	coupons := router.Group("/coupons", authenticated)
	{
		coupons.POST("/validate", c.Validate)
	}

	adminCoupons := router.Group("/coupons", authenticated, admin)
	{
		adminCoupons.GET("", c.List)
		adminCoupons.POST("", c.Create)
		adminCoupons.GET("/:id", c.Get)
		adminCoupons.PUT("/:id", c.Update)
		adminCoupons.DELETE("/:id", c.Delete)
		adminCoupons.POST("/:id/redeem", c.Redeem)
	}
}

// Validate POST /api/v1/payment/validate-coupon
func (c *Controller) Validate(ctx *gin.Context) {
	var req couponapp.ValidateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	result, err := c.couponService.Validate(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, result.Message)
}

// Create POST /api/v1/coupons
func (c *Controller) Create(ctx *gin.Context) {
	var req couponapp.CouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	created, err := c.couponService.Create(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, created, "coupon created successfully")
}

// List GET /api/v1/coupons
func (c *Controller) List(ctx *gin.Context) {
	coupons, err := c.couponService.List(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, coupons, "coupons retrieved successfully")
}

// Get GET /api/v1/coupons/:id
func (c *Controller) Get(ctx *gin.Context) {
	found, err := c.couponService.Get(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, found, "coupon retrieved successfully")
}

// Update PUT /api/v1/coupons/:id
func (c *Controller) Update(ctx *gin.Context) {
	var req couponapp.CouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	updated, err := c.couponService.Update(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, updated, "coupon updated successfully")
}

// Delete DELETE /api/v1/coupons/:id
func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.couponService.Delete(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "coupon removed")
}

// Redeem POST /api/v1/coupons/:code/redeem
func (c *Controller) Redeem(ctx *gin.Context) {
	redeemed, err := c.couponService.Redeem(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, redeemed, "coupon redeemed")
}
