package payrollerrors

import (
	"net/http"

	"go-gaji/internal/shared/apperror"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll record not found",
		http.StatusNotFound,
	)

	ErrPeriodOverlap = apperror.New(
		apperror.CodeConflict,
		"Payroll already exists in overlapping period for this employee",
		http.StatusConflict,
	)

	// ErrNegativeNetPay dilaporkan saat potongan melebihi pendapatan.
	// Record payroll tetap dibuat dengan status NEEDS_REVIEW.
	ErrNegativeNetPay = apperror.New(
		apperror.CodeNegativeNetPay,
		"Net pay is negative, payroll flagged for manual review",
		http.StatusUnprocessableEntity,
	)

	ErrPayrollAlreadyPaid = apperror.New(
		apperror.CodeConflict,
		"Payroll is already paid and read-only",
		http.StatusConflict,
	)

	ErrNegativeDeduction = apperror.New(
		apperror.CodeInvalidInput,
		"Deduction amount must not be negative",
		http.StatusBadRequest,
	)
)
