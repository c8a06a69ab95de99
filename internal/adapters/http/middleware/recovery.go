package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

// Recovery converts a handler panic into a 500 INTERNAL_ERROR envelope. The
// panic value and stack are logged, never returned. Install it first.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				recoverPanic(c, logger, r)
			}
		}()

		c.Next()
	}
}

func recoverPanic(c *gin.Context, logger *slog.Logger, r any) {
	logging.FromContextOr(c.Request.Context(), logger).Error("panic recovered",
		slog.Any("panic", r),
		slog.String("stack", string(debug.Stack())),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	// Headers are gone once the body started; all that is left is stopping the chain.
	if c.Writer.Written() {
		c.Abort()
		return
	}

	abortWithEnvelope(c, http.StatusInternalServerError, dto.ErrorCodeInternal, "an internal error occurred")
}
