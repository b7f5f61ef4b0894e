package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homecrew/internal/domain"
	"homecrew/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if r, _ := role.(string); domain.UserRole(r) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CompanyOnly requires the company role.
func CompanyOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleCompany)
}
