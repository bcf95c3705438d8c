// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/wine-catalog/internal/platform/logging"
)

const (
	// HeaderRequestID carries the per-request id.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries the id of the caller's business transaction.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key of the request id.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key of the correlation id.
	ContextKeyCorrelationID = "correlation_id"

	// maxInboundIDLength caps ids accepted from clients.
	maxInboundIDLength = 128
)

// RequestID returns middleware that accepts the caller's X-Request-ID or
// mints a UUID v4. The id is echoed in the response, stored in the gin
// context and attached to the request logger.
func RequestID() gin.HandlerFunc {
	return propagateID(HeaderRequestID, ContextKeyRequestID, logging.WithRequestID, newUUID)
}

// CorrelationID returns middleware that propagates X-Correlation-ID. A
// request that arrives without one starts a new transaction whose id is
// the request id, so install it after RequestID.
func CorrelationID() gin.HandlerFunc {
	return propagateID(HeaderCorrelationID, ContextKeyCorrelationID, logging.WithCorrelationID, func(c *gin.Context) string {
		if id := GetRequestID(c); id != "" {
			return id
		}

		return newUUID(c)
	})
}

// GetRequestID returns the request id, or "" outside the middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation id, or "" outside the middleware.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func propagateID(
	header, key string,
	enrich func(context.Context, string) context.Context,
	fallback func(*gin.Context) string,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !validInboundID(id) {
			id = fallback(c)
		}

		c.Set(key, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id))

		c.Next()
	}
}

func newUUID(*gin.Context) string {
	return uuid.NewString()
}

// validInboundID rejects empty, oversized and non-printable ids so they
// cannot smuggle data into logs or response headers.
func validInboundID(id string) bool {
	if id == "" || len(id) > maxInboundIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}

	return true
}
