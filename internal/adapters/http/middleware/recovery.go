package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/wine-catalog/internal/platform/logging"
)

// Recovery is the outermost guard. It seeds the request context with
// logger, so the id middleware and everything after it log through it,
// and turns panics raised anywhere in the chain into a 500. Errors
// attached with c.Error are translated too when nothing inner wrote a
// response, which keeps it usable on its own.
//
// Apply it first, and ErrorBoundary last.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger != nil {
			c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		}

		defer recoverPanic(c, logger)

		c.Next()

		if !c.Writer.Written() {
			translateErrors(c, logger)
		}
	}
}

// ErrorBoundary answers errors attached with c.Error, and panics raised by
// handlers, with the 500 body. Installed after Logging and the metrics
// middleware, those record the final status rather than the pending 200.
func ErrorBoundary(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer recoverPanic(c, logger)

		c.Next()

		translateErrors(c, logger)
	}
}

// recoverPanic must be deferred directly so recover sees the panic.
func recoverPanic(c *gin.Context, logger *slog.Logger) {
	r := recover()
	if r == nil {
		return
	}

	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}

	if errors.Is(err, http.ErrAbortHandler) {
		panic(r)
	}

	logging.FromContextOr(c.Request.Context(), logger).Error("panic recovered",
		slog.Any("error", err),
		slog.String("stack", string(debug.Stack())),
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
	)

	writeUnhandled(c, err)
}

func translateErrors(c *gin.Context, logger *slog.Logger) {
	if len(c.Errors) == 0 {
		return
	}

	err := c.Errors.Last().Err

	logging.FromContextOr(c.Request.Context(), logger).Error("unhandled error",
		slog.Any("error", err),
		slog.Int("error_count", len(c.Errors)),
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
	)

	writeUnhandled(c, err)
}

// writeUnhandled answers 500 with the error boundary body unless headers
// are already out.
func writeUnhandled(c *gin.Context, err error) {
	if c.Writer.Written() {
		c.Abort()
		return
	}

	resp := dto.NewUnhandledErrorResponse(err)
	resp.TraceID = dto.GetTraceID(c)

	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}
