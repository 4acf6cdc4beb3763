package bootstrap

import (
	"context"
	"time"

	"go-gaji/internal/shared/contextutil"

	"go.uber.org/zap"
)

type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	zap.L().Named("audit").Info("audit event", fields...)
}
