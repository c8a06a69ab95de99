package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

type planOptions struct {
	kind        string
	waypoints   []string
	itinerary   int64
	speed       int
	distance    int
	duration    int
	poiTypes    string
	saveRoute   bool
	alternative bool
}

func newPlanCmd(build func(*cobra.Command) (routeRunner, error)) *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a journey and print its route document",
		Example: `  routectl plan --kind fastest --waypoint 53.4794,-2.2453 --waypoint 53.4631,-2.2913
  routectl plan --kind leisure --waypoint 53.4794,-2.2453 --duration 3600 --poi-types pubs,cafes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}

			svc, err := build(cmd)
			if err != nil {
				return err
			}

			data, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return routeError(err)
			}

			return writeDocument(cmd.OutOrStdout(), data)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.kind, "kind", string(domain.RouteKindBalanced), "route kind: balanced, fastest, quietest, shortest or leisure")
	f.StringArrayVar(&opts.waypoints, "waypoint", nil, "waypoint as lat,lon; repeat in journey order")
	f.Int64Var(&opts.itinerary, "itinerary", 0, "stored itinerary to replay instead of planning")
	f.IntVar(&opts.speed, "speed", 0, "cycling speed in km/h for leisure journeys")
	f.IntVar(&opts.distance, "distance", 0, "target distance in metres for leisure journeys")
	f.IntVar(&opts.duration, "duration", 0, "target duration in seconds for leisure journeys")
	f.StringVar(&opts.poiTypes, "poi-types", "", "comma separated points of interest for leisure journeys")
	f.BoolVar(&opts.saveRoute, "save", false, "mark the output for saving by the caller; not sent to the provider")
	f.BoolVar(&opts.alternative, "alternative", false, "mark the output as an alternative route; not sent to the provider")

	return cmd
}

func (o *planOptions) request(cmd *cobra.Command) (domain.RouteRequest, error) {
	kind, err := domain.ParseRouteKind(o.kind)
	if err != nil {
		return domain.RouteRequest{}, err
	}

	req := domain.RouteRequest{
		Kind:        kind,
		Itinerary:   o.itinerary,
		Speed:       o.speed,
		POITypes:    o.poiTypes,
		SaveRoute:   o.saveRoute,
		Alternative: o.alternative,
	}

	if cmd.Flags().Changed("distance") {
		req.Distance = &o.distance
	}

	if cmd.Flags().Changed("duration") {
		req.Duration = &o.duration
	}

	for i, raw := range o.waypoints {
		wp, err := parseWaypoint(raw)
		if err != nil {
			return domain.RouteRequest{}, err
		}

		wp.Sequence = i + 1
		req.Waypoints = append(req.Waypoints, wp)
	}

	return req, nil
}

// parseWaypoint reads "lat,lon".
func parseWaypoint(raw string) (domain.Waypoint, error) {
	latText, lonText, ok := strings.Cut(raw, ",")
	if !ok {
		return domain.Waypoint{}, fmt.Errorf("waypoint %q: want lat,lon", raw)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("waypoint %q: bad latitude: %w", raw, err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("waypoint %q: bad longitude: %w", raw, err)
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return domain.Waypoint{}, fmt.Errorf("waypoint %q: out of range", raw)
	}

	return domain.Waypoint{Latitude: lat, Longitude: lon}, nil
}
