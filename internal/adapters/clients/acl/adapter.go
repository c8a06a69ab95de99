package acl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/clients"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// maxRouteBodyBytes caps a provider payload; long multi-step routes stay far below it.
const maxRouteBodyBytes = 16 << 20

// Endpoint is one routing provider reached through a resilient client.
type Endpoint struct {
	client *clients.Client
	name   string
}

// NewEndpoint names client after the provider it talks to.
func NewEndpoint(client *clients.Client, name string) Endpoint {
	return Endpoint{client: client, name: name}
}

// Name is the provider name used in errors and health reports.
func (e Endpoint) Name() string { return e.name }

// Client is the underlying resilient client.
func (e Endpoint) Client() *clients.Client { return e.client }

// FetchText issues a GET and returns the trimmed body. Transport failures and
// non-2xx answers come back as domain errors describing operation on entityID.
func (e Endpoint) FetchText(ctx context.Context, path string, query url.Values, operation, entityID string) (string, error) {
	resp, err := e.client.GetQuery(ctx, path, query)
	if err != nil {
		return "", MapHTTPError(nil, err, e.name, operation, entityID)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", MapHTTPError(resp, nil, e.name, operation, entityID)
	}

	return ReadText(resp.Body, e.name)
}

// ReadText drains body up to maxRouteBodyBytes and trims surrounding whitespace.
func ReadText(body io.Reader, provider string) (string, error) {
	if body == nil {
		return "", domain.NewUnavailableError(provider, "response body is nil")
	}

	data, err := io.ReadAll(io.LimitReader(body, maxRouteBodyBytes+1))

	switch {
	case err != nil:
		return "", domain.NewUnavailableError(provider, fmt.Sprintf("reading response: %v", err))
	case len(data) > maxRouteBodyBytes:
		return "", domain.NewUnavailableError(provider, fmt.Sprintf("response exceeds %d bytes", maxRouteBodyBytes))
	}

	return strings.TrimSpace(string(data)), nil
}

func requireValue(value, field string) error {
	if value != "" {
		return nil
	}

	return domain.NewValidationError(field, "is required")
}
