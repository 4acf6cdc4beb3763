package app

import (
	"os"

	"go-gaji/internal/middleware"
	"go-gaji/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	return registerModules(router, sqlDB, gormDB, redisClient)
}
