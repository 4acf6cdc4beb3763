package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// 1. Ganti underscore dengan spasi (premi_produksi -> premi produksi)
	s = strings.ReplaceAll(s, "_", " ")

	// 2. Ubah jadi Title Case (premi produksi -> Premi Produksi)
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError memetakan error binding Gin menjadi VALIDATION_ERROR
// dengan daftar lengkap field yang melanggar.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]FieldError, 0, len(errs))
		for _, e := range errs {
			// e.Field() sudah berupa nama tag json karena RegisterTagNameFunc
			humanReadableField := formatFieldName(e.Field())

			switch e.Tag() {
			case "required":
				fields = append(fields, FieldError{
					Field:   e.Field(),
					Message: humanReadableField + " is required",
				})
			default:
				fields = append(fields, FieldError{
					Field:   e.Field(),
					Message: humanReadableField + " is invalid",
				})
			}
		}
		return NewValidation("Input tidak valid", fields)
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
