package handlers

import (
	"finance-ledger/internal/errors"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// Handlers report failures through the helpers below so every error body
// has the {error:{code,message,details,trace_id}} shape:
//
// 1. SendError - client and business errors (4xx)
//    - Validation errors: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Not found errors: SendError(c, errors.TransactionNotFound)
//
// 2. SendQueryError - a query that failed to execute (500, SYSTEM_002).
//    The message names the operation; the driver error stays in the logs.
//
// 3. SendSystemError - any other internal error (500, SYSTEM_001)
//
// Successful responses are written with c.JSON directly; the payload is the
// resource itself, not an envelope.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendQueryError reports a failed query with an operation-specific message
func SendQueryError(c echo.Context, message string) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewQueryError(traceID, message)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError answers with the generic system message. Callers log the cause.
func SendSystemError(c echo.Context) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewSystemError(traceID)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}
