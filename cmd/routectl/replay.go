package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

const defaultReplayParallel = 4

func newReplayCmd(build func(*cobra.Command) (routeRunner, error)) *cobra.Command {
	var (
		kind        string
		itineraries []int64
		parallel    int
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Fetch stored itineraries and print one route document per line",
		Example: `  routectl replay --itinerary 86294665
  routectl replay --itinerary 86294665 --itinerary 86294666 --kind quietest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(itineraries) == 0 {
				return fmt.Errorf("at least one --itinerary is required")
			}

			routeKind, err := domain.ParseRouteKind(kind)
			if err != nil {
				return err
			}

			reqs := make([]domain.RouteRequest, len(itineraries))
			for i, id := range itineraries {
				reqs[i] = domain.RouteRequest{Kind: routeKind, Itinerary: id}
			}

			svc, err := build(cmd)
			if err != nil {
				return err
			}

			failed := 0

			for i, result := range svc.RunAll(cmd.Context(), parallel, reqs) {
				if result.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "itinerary %d: %s\n", itineraries[i], domain.UserMessage(result.Err))

					continue
				}

				if err := writeDocument(cmd.OutOrStdout(), result.Route); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d itineraries failed", failed, len(itineraries))
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&kind, "kind", string(domain.RouteKindBalanced), "route kind used for the lookup")
	f.Int64SliceVar(&itineraries, "itinerary", nil, "stored itinerary id; repeat or comma separate")
	f.IntVar(&parallel, "parallel", defaultReplayParallel, "maximum itineraries fetched at once")

	return cmd
}
