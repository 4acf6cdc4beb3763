package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Domain errors penggajian
	CodeNoActivePolicy = "NO_ACTIVE_POLICY"
	CodeNegativeNetPay = "NEGATIVE_NET_PAY"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
