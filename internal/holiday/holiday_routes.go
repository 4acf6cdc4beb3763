package holiday

import (
	"go-gaji/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.RBACAuthorize(enforcer, "holiday", "read"), handler.GetAll)
		holidays.POST("", middleware.RBACAuthorize(enforcer, "holiday", "write"), handler.Create)
		holidays.DELETE("/:id", middleware.RBACAuthorize(enforcer, "holiday", "write"), handler.Delete)
	}
}
