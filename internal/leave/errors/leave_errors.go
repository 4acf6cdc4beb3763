package leaveerrors

import (
	"net/http"

	"go-gaji/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be IZIN or CUTI",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave has already been approved or rejected",
		http.StatusBadRequest,
	)
)
