package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-gaji/internal/attendance"
	"go-gaji/internal/employee"
	"go-gaji/internal/events"
	"go-gaji/internal/holiday"
	"go-gaji/internal/leave"
	"go-gaji/internal/messaging/kafka/consumer"
	"go-gaji/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	attendanceRepo := attendance.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, employeeRepo, holidayRepo, leaveRepo)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.AttendanceScanRecordedTopic,
		GroupID:        "go-gaji-attendance-scan",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeAttendanceScans(ctx, reader, attendanceService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
