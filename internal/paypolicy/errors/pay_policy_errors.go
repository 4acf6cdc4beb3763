package paypolicyerrors

import (
	"net/http"

	"go-gaji/internal/shared/apperror"
)

var (
	// ErrNoActivePolicy menghentikan perhitungan gaji, bukan men-default-kan
	// tarif ke nol: payroll tanpa policy aktif harus diputuskan manusia.
	ErrNoActivePolicy = apperror.New(
		apperror.CodeNoActivePolicy,
		"no active pay policy version; create or activate one before running payroll",
		http.StatusConflict,
	)
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"pay policy version not found",
		http.StatusNotFound,
	)
)
