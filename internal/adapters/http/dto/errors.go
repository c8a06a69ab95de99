// Package dto holds the request and response shapes of the route API.
package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

// traceIDKey is the gin context key holding the request trace ID.
const traceIDKey = "trace_id"

// Error codes carried in ErrorDetail.Code.
const (
	ErrorCodeNotFound       = "NOT_FOUND"
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeForbidden      = "FORBIDDEN"
	ErrorCodeUnavailable    = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal       = "INTERNAL_ERROR"
	ErrorCodeTimeout        = "TIMEOUT"
	ErrorCodeBadRequest     = "BAD_REQUEST"
	ErrorCodeContactFailure = "CONTACT_FAILURE"
	ErrorCodeProvider       = "PROVIDER_ERROR"
	ErrorCodeMalformed      = "MALFORMED_RESPONSE"
)

var statusByCode = map[string]int{
	ErrorCodeNotFound:       http.StatusNotFound,
	ErrorCodeValidation:     http.StatusBadRequest,
	ErrorCodeBadRequest:     http.StatusBadRequest,
	ErrorCodeForbidden:      http.StatusForbidden,
	ErrorCodeProvider:       http.StatusUnprocessableEntity,
	ErrorCodeMalformed:      http.StatusBadGateway,
	ErrorCodeUnavailable:    http.StatusServiceUnavailable,
	ErrorCodeContactFailure: http.StatusServiceUnavailable,
	ErrorCodeTimeout:        http.StatusGatewayTimeout,
}

// codeByKind pairs each domain error kind with its code. A route pipeline
// error matches exactly one entry.
var codeByKind = []struct {
	is   func(error) bool
	code string
}{
	{domain.IsContactFailure, ErrorCodeContactFailure},
	{domain.IsNotFound, ErrorCodeNotFound},
	{domain.IsValidation, ErrorCodeValidation},
	{domain.IsServerReported, ErrorCodeProvider},
	{domain.IsMalformedResponse, ErrorCodeMalformed},
	{domain.IsForbidden, ErrorCodeForbidden},
	{domain.IsUnavailable, ErrorCodeUnavailable},
}

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the machine-readable code, the user-facing message and,
// for validation failures, one message per field.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID sets the trace ID and returns e for chaining.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode answers 500 for codes it does not know.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// MapDomainError turns err into a status and envelope. Errors of no known
// kind are reported as INTERNAL_ERROR with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	for _, kind := range codeByKind {
		if !kind.is(err) {
			continue
		}

		resp := NewErrorResponse(kind.code, domain.UserMessage(err))

		var validation *domain.ValidationError
		if kind.code == ErrorCodeValidation && errors.As(err, &validation) && validation.Field != "" {
			resp.Error.Details = map[string]string{validation.Field: validation.Message}
		}

		return HTTPStatusFromCode(kind.code), resp
	}

	return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
}

// GetTraceID prefers the ID stored by the request ID middleware over the
// X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		id, _ := v.(string)
		return id
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes err as the error envelope. Server-side failures are logged.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("route request failed",
			"status", status,
			"code", resp.Error.Code,
			"error", err,
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// HandleBindError answers 400 for a failed BindAndValidate: VALIDATION_ERROR
// with per-field details, or BAD_REQUEST when the body did not decode.
func HandleBindError(c *gin.Context, err error) {
	resp := NewErrorResponse(ErrorCodeBadRequest, "malformed request")
	if IsValidationError(err) {
		resp = NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", ValidationErrors(err))
	}

	c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}
