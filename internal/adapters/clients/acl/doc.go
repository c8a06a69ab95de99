// Package acl is the Anti-Corruption Layer between the routing providers and
// the route domain.
//
// Provider payloads never leave this package in their external shape:
//
//   - [JourneyPlanner] calls OpenRouteService and CycleStreets and returns their
//     raw JSON text.
//   - [JSONErrorDetector] finds a provider-reported "Error" member inside a
//     successful HTTP response.
//   - [RouteTranslator] converts an OpenRouteService GeoJSON directions document
//     into the application route document ([domain.AppRouteDocument]).
//
// # Error Handling Strategy
//
// HTTP and client failures are translated by [MapHTTPError]:
//   - 404 Not Found → [domain.ErrNotFound]
//   - 400/422 Validation → [domain.ErrValidation]
//   - 401/403 Forbidden → [domain.ErrForbidden]
//   - 429/5xx/Network → [domain.ErrUnavailable]
//
// OpenRouteService error codes in the response body take precedence over the
// status code (see [MapExternalCode]). Translation failures are reported as
// [domain.ErrMalformedResponse] with the JSON path that did not match.
package acl
