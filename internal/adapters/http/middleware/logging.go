package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

// probePrefix is where liveness and readiness live. Probes are never logged.
const probePrefix = "/-/"

// Logging writes one access line per request through the request's context
// logger, so request and correlation IDs come along. 5xx lines log at error
// and 4xx at warn. Paths in skipPaths are not logged.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		quiet[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if quiet[path] || strings.HasPrefix(path, probePrefix) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}

		if msgs := c.Errors.ByType(gin.ErrorTypeAny).Errors(); len(msgs) > 0 {
			attrs = append(attrs, slog.Any("errors", msgs))
		}

		logging.FromContextOr(ctx, logger).Log(ctx, accessLevel(status), "request completed", attrs...)
	}
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
