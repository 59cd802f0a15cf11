/*
Package response - API 层统一响应处理

设计原则:
1. HTTP 状态码映射放在 API 层（pkg/errors.AppError.HTTPStatusCode），不污染领域层和应用层
2. 错误响应不暴露内部细节（堆栈、内部错误消息等）
3. 所有响应携带 RequestID 用于日志追踪
4. 内部错误统一返回 "internal server error"，真实错误只记录日志

响应格式:

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", code: 4xx/5xx, request_id: "..." }
*/
package response

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey context key for request id propagation
const RequestIDKey = "request_id"

// Response 通用响应结构
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`      // 错误码，不是错误详情
	Code      int         `json:"code"`                 // HTTP 状态码
	Message   string      `json:"message"`              // 用户可见消息
	RequestID string      `json:"request_id,omitempty"` // 请求追踪 ID
}

// PaginatedResponse 分页响应
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Message    string      `json:"message"`
	Code       int         `json:"code"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination fills TotalPages from the item count
func NewPagination(page, pageSize int, total int64) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Pagination{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: pages}
}

// GetRequestID 从上下文获取请求 ID
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// HandleSuccess 处理成功响应 (200 OK)
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: GetRequestID(c),
	})
}

// HandleCreated 处理创建成功响应 (201 Created)
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: GetRequestID(c),
	})
}

// HandleNoContent 处理无内容响应 (204 No Content)
func HandleNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HandlePaginated 处理分页响应
func HandlePaginated(c *gin.Context, data interface{}, pagination Pagination, message string) {
	c.JSON(http.StatusOK, &PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
		Message:    message,
		Code:       http.StatusOK,
		RequestID:  GetRequestID(c),
	})
}

// Abort writes an error body and stops the handler chain; used by middleware
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Success:   false,
		Error:     code,
		Message:   message,
		Code:      status,
		RequestID: GetRequestID(c),
	})
}
