package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/platform/logging"
)

// probePrefix marks operational routes that are never access-logged.
const probePrefix = "/-/"

// Logging returns access-log middleware. Each request yields one record
// when it completes, at warn for 4xx and error for 5xx, carrying the
// route template, the status and the latency. A debug record marks the
// start. The authenticated subject is included when RequireAuth ran.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, probePrefix) {
			c.Next()
			return
		}

		start := time.Now()
		ctx := c.Request.Context()
		log := logging.FromContextOr(ctx, logger)

		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}

		log.DebugContext(ctx, "request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
		)

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}
		if p := GetPrincipal(c); p != nil {
			attrs = append(attrs, slog.String("subject", p.Subject))
		}

		log.LogAttrs(ctx, levelForStatus(status), "request handled", attrs...)
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
