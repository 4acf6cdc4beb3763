package leave

import (
	"go-gaji/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(enforcer, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(enforcer, "leave", "read"), handler.GetByID)
		leaves.POST("", middleware.RBACAuthorize(enforcer, "leave", "write"), handler.Create)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(enforcer, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(enforcer, "leave", "approve"), handler.Reject)
	}
}
