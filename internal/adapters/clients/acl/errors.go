package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/clients"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// maxErrorBodyBytes bounds how much of an error body is read.
const maxErrorBodyBytes = 64 << 10

// OpenRouteService error codes with a domain meaning of their own.
const (
	ExternalCodeInvalidParameter = "2003"
	ExternalCodeLimitExceeded    = "2004"
	ExternalCodeRouteNotFound    = "2009"
	ExternalCodePointNotFound    = "2010"
)

// ErrorResponse is a provider error body. OpenRouteService sends
// {"error":{"code":2009,"message":"..."}}, CycleStreets sends {"error":"..."}
// and gateways in front of either send {"message":"..."}.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the "error" member of an ErrorResponse.
type ErrorDetail struct {
	Code    string
	Message string
}

// UnmarshalJSON accepts either a bare string or an object with code and message.
func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &d.Message); err == nil {
		return nil
	}

	var nested struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}

	d.Message = nested.Message
	if nested.Code != nil {
		d.Code = fmt.Sprint(nested.Code)
	}

	return nil
}

// GetCode returns the provider error code, or "".
func (e *ErrorResponse) GetCode() string {
	return e.Error.Code
}

// GetMessage prefers the nested message over the top-level one.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes a provider error body.
// It returns nil when the body is absent, not JSON, or carries neither code nor message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var parsed ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBodyBytes)).Decode(&parsed); err != nil {
		return nil
	}

	if parsed.GetCode() == "" && parsed.GetMessage() == "" {
		return nil
	}

	return &parsed
}

// MapHTTPError turns a failed provider exchange into a domain error.
// clientErr takes precedence over resp; a 2xx response yields nil.
// A known provider error code decides before the status does.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	body := ParseErrorResponse(resp.Body)

	if body != nil {
		if err := MapExternalCode(body.GetCode(), body.GetMessage(), entityID); err != nil {
			return err
		}
	}

	failure := providerFailure{
		service:   serviceName,
		operation: operation,
		entityID:  entityID,
		message:   statusMessage(resp.StatusCode, operation),
	}
	if body != nil && body.GetMessage() != "" {
		failure.message = body.GetMessage()
	}

	return failure.forStatus(resp.StatusCode)
}

// MapExternalCode maps a provider error code to a domain error.
// Codes without a mapping return nil so the HTTP status decides.
func MapExternalCode(code, message, entityID string) error {
	switch code {
	case ExternalCodeRouteNotFound, ExternalCodePointNotFound:
		return domain.NewNotFoundError("route", entityID)
	case ExternalCodeInvalidParameter, ExternalCodeLimitExceeded:
		return domain.NewValidationError("waypoints", message)
	}

	return nil
}

func mapClientError(err error, serviceName, operation string) error {
	if errors.Is(err, clients.ErrCircuitOpen) {
		return domain.NewUnavailableError(serviceName, "circuit breaker open during "+operation)
	}

	if errors.Is(err, clients.ErrMaxRetriesExceeded) {
		reason := "max retries exceeded during " + operation

		var statusErr *clients.StatusError
		if errors.As(err, &statusErr) {
			reason = fmt.Sprintf("%s (last status %d)", reason, statusErr.StatusCode)
		}

		return domain.NewUnavailableError(serviceName, reason)
	}

	return domain.NewUnavailableError(serviceName, fmt.Sprintf("%s failed: %v", operation, err))
}

type providerFailure struct {
	service   string
	operation string
	entityID  string
	message   string
}

// forStatus classifies a non-2xx status. Unlisted 5xx mean the provider is
// unavailable, unlisted 4xx mean the request was rejected.
func (f providerFailure) forStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError("route", f.entityID)
	case status == http.StatusUnauthorized:
		return domain.NewForbiddenError(f.operation, "api key rejected")
	case status == http.StatusForbidden:
		return domain.NewForbiddenError(f.operation, f.message)
	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(f.service, "rate limit exceeded")
	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(f.service, f.message)
	default:
		return domain.NewValidationError("", f.message)
	}
}

// statusMessage is used when the error body has no message.
func statusMessage(status int, operation string) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	}

	return fmt.Sprintf("%s failed with status %d", operation, status)
}
