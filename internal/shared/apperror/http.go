package apperror

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// HTTPError adalah bentuk final yang siap di-render oleh handler
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP menerjemahkan error apapun menjadi HTTPError.
// AppError dipetakan apa adanya, gorm.ErrRecordNotFound menjadi 404,
// sisanya dibungkus sebagai INTERNAL_ERROR agar detail tidak bocor ke client.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return HTTPError{
			Status:  http.StatusNotFound,
			Code:    CodeNotFound,
			Message: ErrNotFound.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
