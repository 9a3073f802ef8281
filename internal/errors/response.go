package errors

// ErrorResponse is the body of every failed request: {"error":{...}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption adjusts a response after the defaults are filled in
type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail list
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the default message for the error code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds a response for code carrying the request's trace ID
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			TraceID: traceID,
			Details: []string{},
		},
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationErrorFromList reports rejected request fields, one "field: reason" entry each,
// in the order the validator found them.
func NewValidationErrorFromList(code ErrorCode, details []string, traceID string) *ErrorResponse {
	return NewErrorResponse(code, traceID, WithDetails(details...))
}

// NewSystemError hides an internal failure behind the generic system message.
// The cause is for server-side logs only.
func NewSystemError(traceID string) *ErrorResponse {
	return NewErrorResponse(SystemInternalError, traceID)
}

// NewQueryError reports a failed query. message names the operation, never the driver error.
func NewQueryError(traceID, message string) *ErrorResponse {
	return NewErrorResponse(SystemDatabaseError, traceID, WithMessage(message))
}

// GetHTTPStatus returns the HTTP status code for the error response
func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}
