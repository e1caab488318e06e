package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-contact-backend/internal/delivery/http/response"
	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/auth"
	"portfolio-contact-backend/pkg/logger"
)

// TokenParser verifies admin bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid admin bearer token.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(tokenString) == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			logger.Log.Warn("Admin token rejected", "error", err, "request_id", c.GetString("RequestID"))
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		adminID, err := claims.AdminID()
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyAdminID), adminID)
		c.Set(string(domain.KeyAdminUsername), claims.Username)

		ctx := context.WithValue(c.Request.Context(), domain.KeyAdminID, adminID)
		ctx = context.WithValue(ctx, domain.KeyAdminUsername, claims.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
