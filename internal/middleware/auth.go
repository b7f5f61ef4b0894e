package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homecrew/internal/domain"
	"homecrew/internal/pkg/jwt"
	"homecrew/internal/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth validates the bearer token and stores user_id and role in the
// gin context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		tokenStr, ok := strings.CutPrefix(h, "Bearer ")
		tokenStr = strings.TrimSpace(tokenStr)
		if !ok || tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// Identity returns the acting user set by JWTAuth.
func Identity(c *gin.Context) (domain.Identity, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{UserID: userID, Role: domain.UserRole(c.GetString(ctxRole))}, true
}
