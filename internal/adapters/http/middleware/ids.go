// Package middleware provides the gin middleware chain of the route API.
package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single inbound request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID tracks a journey request across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"

	// ContextKeyTraceID is the gin key read when rendering error envelopes.
	ContextKeyTraceID = "trace_id"
)

type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// RequestID extracts or generates the request ID and makes it available to
// handlers, the context logger, error envelopes and provider calls.
func RequestID() gin.HandlerFunc {
	return idMiddleware(HeaderRequestID, func(c *gin.Context, id string) context.Context {
		c.Set(ContextKeyRequestID, id)
		c.Set(ContextKeyTraceID, id)

		ctx := ContextWithRequestID(c.Request.Context(), id)

		return logging.With(ctx, slog.String(ContextKeyRequestID, id))
	})
}

// CorrelationID propagates X-Correlation-ID, generating one at the edge.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(HeaderCorrelationID, func(c *gin.Context, id string) context.Context {
		c.Set(ContextKeyCorrelationID, id)

		ctx := ContextWithCorrelationID(c.Request.Context(), id)

		return logging.With(ctx, slog.String(ContextKeyCorrelationID, id))
	})
}

func idMiddleware(header string, store func(*gin.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(header, id)
		c.Request = c.Request.WithContext(store(c, id))

		c.Next()
	}
}

// GetRequestID returns the request ID stored on c, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID stored on c, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request ID carried by ctx.
// Provider clients use it to forward X-Request-ID.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation ID carried by ctx.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyCorrelationID)
}

// ContextWithRequestID stores a request ID in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID in ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
