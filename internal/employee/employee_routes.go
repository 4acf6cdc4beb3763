package employee

import (
	"go-gaji/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(enforcer, "employee", "read"), handler.GetAll)
		employees.GET("/options", middleware.RBACAuthorize(enforcer, "employee", "read"), handler.GetOptions)
		employees.GET("/:id", middleware.RBACAuthorize(enforcer, "employee", "read"), handler.GetByID)
	}
}
