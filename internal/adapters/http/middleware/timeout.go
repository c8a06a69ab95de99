package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

// Deadline gives every request at most timeout, provider calls included.
// When the deadline passes and the handler has written nothing, the caller
// gets a 504 TIMEOUT envelope.
func Deadline(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Writer.Written() {
			return
		}

		logging.FromContext(ctx).Warn("request deadline exceeded",
			slog.String("route", c.FullPath()),
			slog.Duration("timeout", timeout),
		)

		abortWithEnvelope(c, http.StatusGatewayTimeout, dto.ErrorCodeTimeout, "request timeout exceeded")
	}
}

// abortWithEnvelope stops the chain with the standard error body, tagged with
// the request's trace ID.
func abortWithEnvelope(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message).WithTraceID(dto.GetTraceID(c)))
}
