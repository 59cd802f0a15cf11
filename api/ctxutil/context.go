package ctxutil

import (
	"context"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/response"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PrincipalKey gin context key set by the auth middleware
const PrincipalKey = "principal"

// WithRequestID request context carrying the request id for repository and driver logs
func WithRequestID(ctx *gin.Context) context.Context {
	return logger.ContextWithRequestID(ctx.Request.Context(), response.GetRequestID(ctx))
}

func SetPrincipal(ctx *gin.Context, p shared.Principal) {
	ctx.Set(PrincipalKey, p)
}

// Principal the authenticated caller; zero value on public routes
func Principal(ctx *gin.Context) shared.Principal {
	if v, ok := ctx.Get(PrincipalKey); ok {
		if p, ok := v.(shared.Principal); ok {
			return p
		}
	}
	return shared.Principal{}
}
