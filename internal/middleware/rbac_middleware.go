package middleware

import (
	"net/http"

	"go-gaji/internal/shared/apperror"
	"go-gaji/internal/shared/response"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// RBACAuthorize memeriksa apakah role aktor boleh melakukan action pada resource.
// Role diambil dari klaim token yang sudah divalidasi AuthMiddleware.
func RBACAuthorize(enforcer *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			role = "employee"
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
