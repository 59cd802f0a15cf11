/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 取出认证中间件写入的 principal，调用应用服务
3. 使用 response 包统一处理响应和错误

错误处理原则:
1. 参数绑定错误: 使用 response.HandleError 直接返回 400
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
*/
package order

import (
	"errors"
	"io"
	"net/http"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/ctxutil"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/response"
	orderapp "github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/application/order"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes 注册订单路由；authenticated 必须在 admin 之前
func (c *Controller) RegisterRoutes(router *gin.RouterGroup, authenticated, admin gin.HandlerFunc) {
	orders := router.Group("/orders", authenticated)
	{
		orders.POST("", c.CreateOrder)
		orders.GET("/mine", c.ListMyOrders)
		orders.GET("/:id", c.GetOrder)
		orders.PUT("/:id/pay", c.MarkPaid)
		orders.POST("/:id/cancel-request", c.RequestCancellation)
		orders.PUT("/:id/cancel", c.CancelOrder)
	}

	adminOrders := router.Group("/orders", authenticated, admin)
	{
		adminOrders.GET("", c.ListOrders)
		adminOrders.GET("/cancellations", c.ListCancellationRequests)
		adminOrders.GET("/cancellations/export", c.ExportCancellationRequests)
		adminOrders.PUT("/:id/status", c.UpdateStatus)
		adminOrders.PUT("/:id/mark-paid", c.MarkCashOnDeliveryPaid)
		adminOrders.PUT("/:id/cancel-process", c.ProcessCancellation)
		adminOrders.DELETE("/:id", c.DeleteOrder)
	}
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	order, err := c.orderService.CreateOrder(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, order, "order created successfully")
}

// GetOrder 获取订单信息
// GET /api/v1/orders/:id
//
// 错误处理链路:
//
//	LoadForPrincipal 返回: order.ErrOrderNotFound 或 shared.ErrForbidden
//	     ↓
//	Controller 调用: response.HandleAppError(ctx, err)
//	     ↓
//	errors.FromDomainError → AppError{Code} → HTTPStatusCode() → 404 / 403
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// ListMyOrders GET /api/v1/orders/mine
func (c *Controller) ListMyOrders(ctx *gin.Context) {
	orders, err := c.orderService.ListMyOrders(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// ListOrders GET /api/v1/orders?status=&needsReview=&page=&pageSize=
func (c *Controller) ListOrders(ctx *gin.Context) {
	var query orderapp.ListOrdersQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.HandleError(ctx, err, "invalid query parameters")
		return
	}

	page, err := c.orderService.ListOrders(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), query)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, page.Orders, response.NewPagination(page.Page, page.PageSize, page.Total), "orders retrieved successfully")
}

// MarkPaid PUT /api/v1/orders/:id/pay
func (c *Controller) MarkPaid(ctx *gin.Context) {
	var req orderapp.PayOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid payment result")
		return
	}

	order, err := c.orderService.MarkPaid(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order paid")
}

// UpdateStatus PUT /api/v1/orders/:id/status
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	var req orderapp.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	order, err := c.orderService.UpdateStatus(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order status updated successfully")
}

// MarkCashOnDeliveryPaid PUT /api/v1/orders/:id/mark-paid
func (c *Controller) MarkCashOnDeliveryPaid(ctx *gin.Context) {
	order, err := c.orderService.MarkCashOnDeliveryPaid(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "cash on delivery payment recorded")
}

// RequestCancellation POST /api/v1/orders/:id/cancel-request
func (c *Controller) RequestCancellation(ctx *gin.Context) {
	var req orderapp.CancellationRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	created, err := c.orderService.RequestCancellation(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, created, "cancellation request submitted")
}

// ProcessCancellation PUT /api/v1/orders/:id/cancel-process
func (c *Controller) ProcessCancellation(ctx *gin.Context) {
	var req orderapp.ProcessCancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters")
		return
	}

	order, err := c.orderService.ProcessCancellation(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "cancellation request processed")
}

// CancelOrder PUT /api/v1/orders/:id/cancel；请求体可为空
func (c *Controller) CancelOrder(ctx *gin.Context) {
	var req orderapp.CancellationRequestBody
	// 分块传输时 ContentLength 为 -1，按 Body 判断
	if body := ctx.Request.Body; body != nil && body != http.NoBody {
		if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.HandleError(ctx, err, "invalid request parameters")
			return
		}
	}

	order, err := c.orderService.CancelOrder(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order cancelled")
}

// DeleteOrder DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	if err := c.orderService.DeleteOrder(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, nil, "order removed")
}

// ListCancellationRequests GET /api/v1/orders/cancellations?status=
func (c *Controller) ListCancellationRequests(ctx *gin.Context) {
	items, err := c.orderService.ListCancellationRequests(ctxutil.WithRequestID(ctx), ctxutil.Principal(ctx), ctx.Query("status"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, items, "cancellation requests retrieved successfully")
}
