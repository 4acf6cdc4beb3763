package payroll

import (
	"go-gaji/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", middleware.RBACAuthorize(enforcer, "payroll", "read"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(enforcer, "payroll", "read"), handler.GetByID)
		payrolls.GET("/:id/breakdown", middleware.RBACAuthorize(enforcer, "payroll", "read"), handler.GetBreakdown)
		payrolls.POST("/generate", middleware.RBACAuthorize(enforcer, "payroll", "write"), middleware.Idempotency(rdb), handler.Generate)
		payrolls.POST("/batch", middleware.RBACAuthorize(enforcer, "payroll", "write"), middleware.Idempotency(rdb), handler.RunBatch)
		payrolls.POST("/:id/pay", middleware.RBACAuthorize(enforcer, "payroll", "write"), handler.MarkAsPaid)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(enforcer, "payroll", "write"), handler.Delete)
	}
}
