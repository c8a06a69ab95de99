// Package clients provides the resilient HTTP client shared by the routing
// provider adapters.
package clients

import (
	"errors"
	"fmt"
)

// Client-layer failures. The acl package turns them into domain errors.
var (
	// ErrCircuitOpen is returned without contacting the provider while its breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once every attempt has failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError records a provider answer of 429 or 5xx. Such answers are
// retried and count against the breaker.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered HTTP %d", e.Service, e.StatusCode)
}
