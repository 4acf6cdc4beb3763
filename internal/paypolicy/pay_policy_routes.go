package paypolicy

import (
	"go-gaji/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer, rdb *redis.Client) {
	policies := r.Group("/pay-policies")
	policies.Use(middleware.AuthMiddleware())
	{
		policies.GET("/active", middleware.RBACAuthorize(enforcer, "policy", "read"), handler.GetActive)
		policies.GET("/history", middleware.RBACAuthorize(enforcer, "policy", "read"), handler.GetHistory)
		policies.POST("", middleware.RBACAuthorize(enforcer, "policy", "write"), middleware.Idempotency(rdb), handler.CreateVersion)
		policies.POST("/:id/activate", middleware.RBACAuthorize(enforcer, "policy", "write"), handler.Activate)
	}
}
