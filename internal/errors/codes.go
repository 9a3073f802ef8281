package errors

import "net/http"

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_007"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound         ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount    ErrorCode = "TRANSACTION_002"
	TransactionValidationFailed ErrorCode = "TRANSACTION_005"
	TransactionInvalidType      ErrorCode = "TRANSACTION_006"
	TransactionInvalidFilter    ErrorCode = "TRANSACTION_007"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
	SystemMethodNotAllowed   ErrorCode = "SYSTEM_008"
)

type codeInfo struct {
	message string
	status  int
}

// catalogue holds the default message and HTTP status of every code
var catalogue = map[ErrorCode]codeInfo{
	ValidationGeneral:       {"Validation failed", http.StatusBadRequest},
	ValidationRequiredField: {"Required field is missing", http.StatusBadRequest},
	ValidationInvalidFormat: {"Invalid field format", http.StatusBadRequest},
	ValidationOutOfRange:    {"Field value is out of allowed range", http.StatusBadRequest},
	ValidationInvalidDate:   {"Invalid date format or range", http.StatusBadRequest},

	TransactionNotFound:         {"Transaction not found", http.StatusNotFound},
	TransactionInvalidAmount:    {"Invalid transaction amount", http.StatusBadRequest},
	TransactionValidationFailed: {"Transaction validation failed", http.StatusUnprocessableEntity},
	TransactionInvalidType:      {"Invalid transaction type, must be 'income' or 'expense'", http.StatusUnprocessableEntity},
	TransactionInvalidFilter:    {"Invalid transaction filter combination", http.StatusBadRequest},

	SystemInternalError:      {"An unexpected error occurred. Please contact support with trace ID", http.StatusInternalServerError},
	SystemDatabaseError:      {"Database connection error", http.StatusInternalServerError},
	SystemServiceUnavailable: {"Service temporarily unavailable", http.StatusServiceUnavailable},
	SystemUnexpectedError:    {"An unexpected error occurred", http.StatusInternalServerError},
	SystemRateLimitExceeded:  {"Rate limit exceeded. Please try again later", http.StatusTooManyRequests},
	SystemRouteNotFound:      {"Resource not found", http.StatusNotFound},
	SystemMethodNotAllowed:   {"Method not allowed", http.StatusMethodNotAllowed},
}

// GetErrorMessage returns the default message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if info, ok := catalogue[code]; ok {
		return info.message
	}
	return "An error occurred"
}

// GetHTTPStatus returns the HTTP status for the error code. Unknown codes are 500.
func GetHTTPStatus(code ErrorCode) int {
	if info, ok := catalogue[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
