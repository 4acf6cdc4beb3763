package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-gaji/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrAttendanceNotFound
	}

	// Dua import berjalan bersamaan untuk karyawan+tanggal yang sama:
	// satu menang, yang kalah menabrak unique index.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_attendance_employee_date" {
			return attendanceerrors.ErrDuplicateAttendanceDay
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_attendance_employee_date") {
		return attendanceerrors.ErrDuplicateAttendanceDay
	}

	return err
}
