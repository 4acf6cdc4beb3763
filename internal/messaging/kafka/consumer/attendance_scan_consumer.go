package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-gaji/internal/attendance"
	attendanceerrors "go-gaji/internal/attendance/errors"
	"go-gaji/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAttendanceScans membaca event scan dari mesin fingerprint dan
// menyalurkannya ke classifier lewat ImportScan. Offset di-commit hanya
// setelah record tersimpan, kecuali event yang memang tidak bisa diproses
// ulang (payload rusak, karyawan tidak dikenal, periode sudah final).
func ConsumeAttendanceScans(
	ctx context.Context,
	reader *kafkago.Reader,
	attendanceService attendance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_scan")
	log.Info("attendance scan consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance scan consumer stopped")
				return
			}
			log.Error("fetch attendance scan message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceScanRecordedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance scan event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		source := event.Source
		if source == "" {
			source = "FINGERPRINT"
		}
		_, err = attendanceService.ImportScan(ctx, attendance.ImportScanRequest{
			EmployeeID: event.EmployeeID,
			Date:       event.Date,
			ScanIn:     event.ScanIn,
			ScanOut:    event.ScanOut,
			Source:     source,
		})
		if err != nil {
			if isUnprocessableScan(err) {
				log.Warn("attendance scan event skipped",
					zap.String("employee_id", event.EmployeeID),
					zap.String("date", event.Date),
					zap.Error(err),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("import attendance scan failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("date", event.Date),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance scan message failed", zap.Error(err))
			continue
		}

		log.Info("attendance scan imported from event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("date", event.Date),
		)
	}
}

// isUnprocessableScan menilai apakah retry tidak akan pernah berhasil.
func isUnprocessableScan(err error) bool {
	return errors.Is(err, attendanceerrors.ErrEmployeeNotFound) ||
		errors.Is(err, attendanceerrors.ErrAttendanceFinalized)
}
