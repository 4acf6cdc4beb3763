package app

import (
	"database/sql"
	"path/filepath"

	"go-gaji/internal/attendance"
	"go-gaji/internal/employee"
	"go-gaji/internal/holiday"
	"go-gaji/internal/leave"
	"go-gaji/internal/messaging/kafka"
	"go-gaji/internal/paypolicy"
	"go-gaji/internal/payroll"
	"go-gaji/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payPolicyRepo := paypolicy.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(
		filepath.Join("internal", "rbac", "infra", "model.conf"),
		filepath.Join("internal", "rbac", "infra", "policy.csv"),
	)
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, rdb)
	holidayService := holiday.NewService(db, holidayRepo)
	leaveService := leave.NewService(db, leaveRepo)
	payPolicyService := paypolicy.NewService(db, payPolicyRepo, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo, holidayRepo, leaveRepo)
	payrollService := payroll.NewService(db, payrollRepo, attendanceRepo, employeeRepo, holidayRepo, payPolicyService, outboxRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandler(leaveService)
	payPolicyHandler := paypolicy.NewHandler(payPolicyService)
	payrollHandler := payroll.NewHandler(payrollService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, enforcer, rdb)
		employee.RegisterRoutes(api, employeeHandler, enforcer)
		holiday.RegisterRoutes(api, holidayHandler, enforcer)
		leave.RegisterRoutes(api, leaveHandler, enforcer)
		paypolicy.RegisterRoutes(api, payPolicyHandler, enforcer, rdb)
		payroll.RegisterRoutes(api, payrollHandler, enforcer, rdb)
	}

	return nil
}
