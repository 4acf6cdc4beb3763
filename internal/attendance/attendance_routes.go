package attendance

import (
	"go-gaji/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer, rdb *redis.Client) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("", middleware.RBACAuthorize(enforcer, "attendance", "read"), handler.GetAllByDate)
		attendances.GET("/employees/:employee_id", middleware.RBACAuthorize(enforcer, "attendance", "read"), handler.GetByEmployee)
		attendances.POST("/scans", middleware.RBACAuthorize(enforcer, "attendance", "write"), middleware.Idempotency(rdb), handler.ImportScan)
		attendances.POST("/manual", middleware.RBACAuthorize(enforcer, "attendance", "write"), middleware.Idempotency(rdb), handler.ManualEntry)
		attendances.POST("/:id/reclassify", middleware.RBACAuthorize(enforcer, "attendance", "write"), handler.Reclassify)
	}
}
