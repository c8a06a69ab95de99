package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// BatchResult is the outcome of one request of a batch.
// Exactly one of Route and Err is set.
type BatchResult struct {
	Route *domain.RouteData
	Err   error
}

// runBatch runs fetch once per request with at most limit calls in flight.
// A failed request never cancels its siblings. Requests still queued when ctx
// ends are reported with the context error instead of being started.
func runBatch(
	ctx context.Context,
	limit int,
	reqs []domain.RouteRequest,
	fetch func(context.Context, domain.RouteRequest) (*domain.RouteData, error),
) []BatchResult {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			route, err := fetch(ctx, req)
			if err != nil {
				results[i].Err = err
				return nil
			}

			results[i].Route = route

			return nil
		})
	}

	_ = g.Wait()

	return results
}
