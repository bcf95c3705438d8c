package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// TraceIDKey is the gin context key holding the trace ID when no span is active.
const TraceIDKey = "trace_id"

const requestIDHeader = "X-Request-ID"

// MapDomainError maps a domain error to an HTTP status code and error response.
// ok is false for errors outside the domain taxonomy; those belong to the
// error boundary.
func MapDomainError(err error) (status int, resp *ErrorResponse, ok bool) {
	switch {
	case err == nil:
		return http.StatusOK, nil, true

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error()), true

	case domain.IsValidation(err):
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || len(verr.Violations) == 0 {
			return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, err.Error()), true
		}

		return http.StatusBadRequest, NewValidationResponse(violationsFromDomain(verr.Violations)), true

	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, NewErrorResponse(ErrorCodeUnauthorized, err.Error()), true

	default:
		return http.StatusInternalServerError, nil, false
	}
}

// HandleError writes the envelope for a domain error. Anything else is
// attached to the context and the chain aborted so the error boundary
// produces the 500 response.
func HandleError(c *gin.Context, err error) {
	status, resp, ok := MapDomainError(err)
	if !ok {
		_ = c.Error(err)
		c.Abort()

		return
	}

	c.JSON(status, resp.WithTraceID(GetTraceID(c)))
}

// RespondWithErrorCode writes an error response with a specific error code.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// GetTraceID returns the active OpenTelemetry trace ID, falling back to the
// value stored under TraceIDKey and then the request id, preferring the one
// already echoed on the response.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			return sc.TraceID().String()
		}
	}

	if v, exists := c.Get(TraceIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if id := c.Writer.Header().Get(requestIDHeader); id != "" {
		return id
	}

	if c.Request != nil {
		return c.Request.Header.Get(requestIDHeader)
	}

	return ""
}
