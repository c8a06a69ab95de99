// Package domain holds the route request model and the failures a route
// fetch can end in. Adapters map these errors onto HTTP statuses and CLI exit
// messages; nothing here knows about either.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Every typed error below unwraps to one.
var (
	// ErrNotFound indicates the requested entity does not exist.
	// The routing provider signals this with a literal "null" body.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted, e.g. a rejected API key.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrContactFailure indicates the routing provider could not be reached
	// or its payload could not be read.
	ErrContactFailure = errors.New("could not contact server")

	// ErrServerReported indicates the provider answered with an explicit error field.
	ErrServerReported = errors.New("server reported error")

	// ErrMalformedResponse indicates the provider payload does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// NotFoundError names the missing entity, usually a route by itinerary number.
// Message, when set, is the text shown to end users.
type NotFoundError struct {
	Entity  string
	ID      string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewNotFoundErrorWithMessage(entity, id, message string) error {
	return &NotFoundError{Entity: entity, ID: id, Message: message}
}

// ValidationError rejects a request before any provider is contacted.
// Value is the offending input when one is known.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ForbiddenError is a provider refusing the call, typically over its API key.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError is a provider that could not serve the call right now.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// ContactFailureError records whatever stopped a raw route payload from being
// obtained. It matches ErrContactFailure only; the kind of Cause does not leak
// through errors.Is or errors.As.
type ContactFailureError struct {
	Cause error
}

func (e *ContactFailureError) Error() string {
	if e.Cause == nil {
		return ErrContactFailure.Error()
	}

	return fmt.Sprintf("%s: %v", ErrContactFailure, e.Cause)
}

func (e *ContactFailureError) Unwrap() error {
	return ErrContactFailure
}

func NewContactFailureError(cause error) error {
	return &ContactFailureError{Cause: cause}
}

// ServerReportedError carries the text of an "Error" field found in a provider payload.
type ServerReportedError struct {
	Message string
}

func (e *ServerReportedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrServerReported, e.Message)
}

func (e *ServerReportedError) Unwrap() error {
	return ErrServerReported
}

func NewServerReportedError(message string) error {
	return &ServerReportedError{Message: message}
}

// MalformedResponseError describes where a provider payload broke the expected shape.
type MalformedResponseError struct {
	Path  string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	switch {
	case e.Path != "" && e.Cause != nil:
		return fmt.Sprintf("%s at %s: %v", ErrMalformedResponse, e.Path, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("%s at %s", ErrMalformedResponse, e.Path)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", ErrMalformedResponse, e.Cause)
	default:
		return ErrMalformedResponse.Error()
	}
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// NewMalformedResponseError reports a payload that broke shape at path, a
// JSON path such as "features[0].properties.segments".
func NewMalformedResponseError(path string, cause error) error {
	return &MalformedResponseError{Path: path, Cause: cause}
}

func IsNotFound(err error) bool          { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool        { return errors.Is(err, ErrValidation) }
func IsForbidden(err error) bool         { return errors.Is(err, ErrForbidden) }
func IsUnavailable(err error) bool       { return errors.Is(err, ErrUnavailable) }
func IsContactFailure(err error) bool    { return errors.Is(err, ErrContactFailure) }
func IsServerReported(err error) bool    { return errors.Is(err, ErrServerReported) }
func IsMalformedResponse(err error) bool { return errors.Is(err, ErrMalformedResponse) }

// UserMessage renders err as the short text shown to end users.
func UserMessage(err error) string {
	var (
		reported    *ServerReportedError
		contact     *ContactFailureError
		notFound    *NotFoundError
		validation  *ValidationError
		malformed   *MalformedResponseError
		unavailable *UnavailableError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &reported):
		return reported.Message
	case errors.As(err, &contact):
		if contact.Cause == nil {
			return ErrContactFailure.Error()
		}

		return ErrContactFailure.Error() + " " + contact.Cause.Error()
	case errors.As(err, &notFound):
		if notFound.Message != "" {
			return notFound.Message
		}

		return notFound.Entity + " not found"
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &malformed):
		return ErrContactFailure.Error() + " " + malformed.Error()
	case errors.As(err, &unavailable):
		return unavailable.Error()
	default:
		return ErrContactFailure.Error()
	}
}
