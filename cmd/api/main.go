package main

import (
	"os"
	"time"

	"go-gaji/internal/app"
	"go-gaji/internal/bootstrap"
	"go-gaji/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	r := gin.Default()

	// build dependency + routes
	if err := app.BuildApp(r); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	auditLogger := bootstrap.NewStdoutAuditLogger()
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		auditLogger,
	)
}
