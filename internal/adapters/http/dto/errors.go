package dto

import "net/http"

// Machine-readable codes carried in ErrorDetail.Code.
const (
	ErrorCodeBadRequest   = "BAD_REQUEST"
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeInternal     = "INTERNAL_ERROR"
)

// UnhandledErrorMessage is what the error boundary tells clients when no
// handler could translate a failure.
const UnhandledErrorMessage = "An unexpected error occurred. Please try again later."

// ErrorResponse wraps every error a handler answers deliberately.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the body of an ErrorResponse.
// Details keeps the first message per field; Violations keeps all of them.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Violations []Violation       `json:"violations,omitempty"`
}

// UnhandledErrorResponse is the 500 body. Details is the raw error text.
type UnhandledErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details"`
	TraceID string `json:"traceId,omitempty"`
}

func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewValidationResponse lists violations under a VALIDATION_ERROR code.
func NewValidationResponse(violations []Violation) *ErrorResponse {
	resp := NewErrorResponse(ErrorCodeValidation, "request validation failed")
	resp.Error.Details = ViolationDetails(violations)
	resp.Error.Violations = violations

	return resp
}

func NewUnhandledErrorResponse(err error) *UnhandledErrorResponse {
	resp := &UnhandledErrorResponse{Message: UnhandledErrorMessage}
	if err != nil {
		resp.Details = err.Error()
	}

	return resp
}

// WithTraceID sets the trace id in place and returns e for chaining.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode returns the status an error code is answered with.
// Unknown codes are server errors.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeBadRequest, ErrorCodeValidation:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
