package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	apierrors "finance-ledger/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API errors counter metric
	apiErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of API errors by code, endpoint, and status",
		},
		[]string{"code", "endpoint", "status"},
	)
)

// CustomHTTPErrorHandler is a custom error handler for Echo that formats errors
// as standardized error responses and logs them appropriately
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	var errorResponse *apierrors.ErrorResponse
	var httpStatus int

	var echoErr *echo.HTTPError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &echoErr):
		errorCode := mapHTTPStatusToErrorCode(echoErr.Code)
		opts := []apierrors.ErrorOption{}
		if msg, ok := echoErr.Message.(string); ok && msg != http.StatusText(echoErr.Code) {
			opts = append(opts, apierrors.WithMessage(msg))
		}

		errorResponse = apierrors.NewErrorResponse(errorCode, traceID, opts...)
		httpStatus = echoErr.Code
	case errors.As(err, &validationErrs):
		details := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, fieldErr.Field()+": "+formatValidationError(fieldErr))
		}
		errorResponse = apierrors.NewValidationErrorFromList(validationErrorCode(validationErrs), details, traceID)
		httpStatus = errorResponse.GetHTTPStatus()
	default:
		errorResponse = apierrors.NewSystemError(traceID)
		httpStatus = errorResponse.GetHTTPStatus()
	}

	writeError(c, httpStatus, errorResponse, err)
}

// writeError logs, counts and sends an error response
func writeError(c echo.Context, httpStatus int, errorResponse *apierrors.ErrorResponse, cause error) {
	logLevel := slog.LevelWarn
	if httpStatus >= 500 {
		logLevel = slog.LevelError
	}

	attrs := []any{
		"trace_id", errorResponse.Error.TraceID,
		"error_code", errorResponse.Error.Code,
		"status", httpStatus,
		"message", errorResponse.Error.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
	}
	if cause != nil {
		attrs = append(attrs, "error", cause.Error())
	}
	slog.Log(c.Request().Context(), logLevel, "HTTP error occurred", attrs...)

	apiErrorsTotal.WithLabelValues(
		errorResponse.Error.Code,
		c.Path(),
		fmt.Sprintf("%d", httpStatus),
	).Inc()

	if sendErr := c.JSON(httpStatus, errorResponse); sendErr != nil {
		slog.Error("Failed to send error response",
			"trace_id", errorResponse.Error.TraceID,
			"error", sendErr.Error(),
		)
	}
}

// mapHTTPStatusToErrorCode maps HTTP status codes to error codes
func mapHTTPStatusToErrorCode(status int) apierrors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return apierrors.ValidationGeneral
	case http.StatusNotFound:
		return apierrors.SystemRouteNotFound
	case http.StatusMethodNotAllowed:
		return apierrors.SystemMethodNotAllowed
	case http.StatusUnprocessableEntity:
		return apierrors.TransactionValidationFailed
	case http.StatusTooManyRequests:
		return apierrors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return apierrors.SystemInternalError
	case http.StatusServiceUnavailable:
		return apierrors.SystemServiceUnavailable
	default:
		return apierrors.SystemUnexpectedError
	}
}

// validationErrorCode narrows the code when every failure has the same cause:
// missing fields or malformed amounts. Mixed failures stay VALIDATION_001.
func validationErrorCode(errs validator.ValidationErrors) apierrors.ErrorCode {
	code := apierrors.ValidationGeneral
	for i, fe := range errs {
		var fieldCode apierrors.ErrorCode
		switch fe.Tag() {
		case "required":
			fieldCode = apierrors.ValidationRequiredField
		case "ledger_amount":
			fieldCode = apierrors.TransactionInvalidAmount
		default:
			return apierrors.ValidationGeneral
		}
		if i > 0 && fieldCode != code {
			return apierrors.ValidationGeneral
		}
		code = fieldCode
	}
	return code
}

// formatValidationError converts a validator.FieldError to a human-readable message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "ledger_amount":
		return "must be a non-negative amount with at most 2 decimal places"
	case "transaction_type":
		return "must be 'income' or 'expense'"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
