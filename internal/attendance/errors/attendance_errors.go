package attendanceerrors

import (
	"net/http"

	"go-gaji/internal/shared/apperror"
)

var (
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)

	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)

	ErrAttendanceFinalized = apperror.New(
		apperror.CodeConflict,
		"Attendance record is finalized and can no longer be changed",
		http.StatusConflict,
	)

	ErrScanNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"Scan times are only allowed for PRESENT or LATE status",
		http.StatusBadRequest,
	)

	ErrDuplicateAttendanceDay = apperror.New(
		apperror.CodeConflict,
		"Attendance record for this employee and date already exists",
		http.StatusConflict,
	)

	ErrScanRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Scan-in time is required for PRESENT or LATE status",
		http.StatusBadRequest,
	)
)
