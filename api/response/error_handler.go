package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/errors"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleError 处理参数绑定等框架层错误，统一 400
func HandleError(c *gin.Context, err error, message string) {
	requestID := GetRequestID(c)

	logger.Warn(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err))

	c.JSON(http.StatusBadRequest, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      http.StatusBadRequest,
		RequestID: requestID,
	})
}

// HandleAppError 处理应用层错误
// 自动映射 HTTP 状态码，记录完整错误日志，但不暴露内部细节给客户端
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := appErr.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	// 4xx 是调用方的问题，只有 5xx 带堆栈记为 error
	if httpStatus >= http.StatusInternalServerError {
		fields = append(fields, zap.Strings("stack", extractStack(err)))
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	userMessage := appErr.Message
	if appErr.Code == errors.CodeInternal {
		userMessage = "internal server error"
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   userMessage,
		Code:      httpStatus,
		RequestID: requestID,
	})
}

// extractStack 优先取错误发生点的堆栈，否则在处理点捕获
func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4) // skip: Callers, captureStack, extractStack, HandleAppError
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ { // 只取前 5 帧
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}
