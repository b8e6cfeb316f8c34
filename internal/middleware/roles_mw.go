package middleware

import (
	"net/http"

	"expense_manager/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles. This
// is the single authorization guard for role-gated routes; services behind it
// do not repeat the check.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Role not found in token, ensure JWT middleware runs first"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid role type in token"})
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
