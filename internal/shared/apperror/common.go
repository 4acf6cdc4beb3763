package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

// RequiredField membangun pesan "X is required" untuk satu field
func RequiredField(field string) *AppError {
	return New(
		CodeValidation,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
	)
}

// InvalidField membangun pesan "X is invalid" untuk satu field
func InvalidField(field string) *AppError {
	return New(
		CodeValidation,
		fmt.Sprintf("%s is invalid", field),
		http.StatusBadRequest,
	)
}
