package middleware

import (
	"net/http"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/ctxutil"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/api/response"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/auth"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/errors"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid bearer token and stores the principal
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, string(errors.CodeUnauthorized), "Not authorized, no token")
			return
		}

		claims, err := parser.Parse(token)
		if err != nil {
			logger.Warn("Rejected bearer token",
				zap.String("request_id", response.GetRequestID(c)),
				zap.Error(err))
			response.Abort(c, http.StatusUnauthorized, string(errors.CodeUnauthorized), "Not authorized, token failed")
			return
		}

		ctxutil.SetPrincipal(c, claims.Principal())
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.Principal(c).IsAdmin {
			response.Abort(c, http.StatusForbidden, string(errors.CodeForbidden), "Not authorized as an admin")
			return
		}
		c.Next()
	}
}
