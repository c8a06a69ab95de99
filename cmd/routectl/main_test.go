package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/route-fetch-service/internal/app"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// fakeRunner answers itineraries from a table and records plan requests.
type fakeRunner struct {
	planned  []domain.RouteRequest
	planErr  error
	byRoute  map[int64]string
	failures map[int64]error
}

func (f *fakeRunner) Run(_ context.Context, req domain.RouteRequest) (*domain.RouteData, error) {
	f.planned = append(f.planned, req)
	if f.planErr != nil {
		return nil, f.planErr
	}

	return &domain.RouteData{JSON: []byte(`{"route":{"name":"Deansgate toOxford Road"}}`)}, nil
}

func (f *fakeRunner) RunAll(_ context.Context, _ int, reqs []domain.RouteRequest) []app.BatchResult {
	results := make([]app.BatchResult, len(reqs))

	for i, req := range reqs {
		if err, ok := f.failures[req.Itinerary]; ok {
			results[i].Err = err
			continue
		}

		results[i].Route = &domain.RouteData{JSON: []byte(f.byRoute[req.Itinerary])}
	}

	return results
}

func execute(t *testing.T, runner *fakeRunner, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	factory := func(string, io.Writer) (routeRunner, error) { return runner, nil }

	var out, errOut bytes.Buffer

	root := newRootCmd(factory)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()

	return out.String(), errOut.String(), err
}

func TestParseWaypoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.Waypoint
		wantErr string
	}{
		{name: "plain", raw: "53.4794,-2.2453", want: domain.Waypoint{Latitude: 53.4794, Longitude: -2.2453}},
		{name: "spaces", raw: " 51.5 , -0.12 ", want: domain.Waypoint{Latitude: 51.5, Longitude: -0.12}},
		{name: "missing comma", raw: "53.4794", wantErr: "want lat,lon"},
		{name: "bad latitude", raw: "north,-2.2", wantErr: "bad latitude"},
		{name: "bad longitude", raw: "53.4,west", wantErr: "bad longitude"},
		{name: "out of range", raw: "95,0", wantErr: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWaypoint(tt.raw)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanCommand(t *testing.T) {
	runner := &fakeRunner{}

	stdout, _, err := execute(t, runner, "plan",
		"--kind", "Quietest",
		"--waypoint", "53.4794,-2.2453",
		"--waypoint", "53.4631,-2.2913",
		"--duration", "0",
		"--save",
	)

	require.NoError(t, err)
	assert.Equal(t, "{\"route\":{\"name\":\"Deansgate toOxford Road\"}}\n", stdout)

	require.Len(t, runner.planned, 1)

	req := runner.planned[0]
	assert.Equal(t, domain.RouteKindQuietest, req.Kind)
	assert.True(t, req.SaveRoute)
	assert.Nil(t, req.Distance)
	require.NotNil(t, req.Duration)
	assert.Equal(t, 0, *req.Duration)
	assert.Equal(t, []domain.Waypoint{
		{Latitude: 53.4794, Longitude: -2.2453, Sequence: 1},
		{Latitude: 53.4631, Longitude: -2.2913, Sequence: 2},
	}, req.Waypoints)
}

func TestPlanCommand_HostOnlyFlags(t *testing.T) {
	runner := &fakeRunner{}

	help, _, err := execute(t, runner, "plan", "--help")
	require.NoError(t, err)

	described := 0

	for _, line := range strings.Split(help, "\n") {
		if strings.Contains(line, "--save") || strings.Contains(line, "--alternative") {
			described++
			assert.Contains(t, line, "not sent to the provider")
		}
	}

	assert.Equal(t, 2, described)

	_, _, err = execute(t, runner, "plan", "--waypoint", "53.4794,-2.2453", "--alternative")
	require.NoError(t, err)
	require.Len(t, runner.planned, 1)
	assert.True(t, runner.planned[0].Alternative)
	assert.False(t, runner.planned[0].SaveRoute)
}

func TestPlanCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		planErr error
		args    []string
		wantErr string
	}{
		{
			name:    "unknown kind",
			args:    []string{"plan", "--kind", "scenic", "--waypoint", "1,1"},
			wantErr: "unknown route kind",
		},
		{
			name:    "bad waypoint",
			args:    []string{"plan", "--waypoint", "1"},
			wantErr: "want lat,lon",
		},
		{
			name:    "provider message",
			planErr: domain.NewServerReportedError("Journey too long"),
			args:    []string{"plan", "--waypoint", "1,1"},
			wantErr: "Journey too long",
		},
		{
			name:    "contact failure",
			planErr: domain.NewContactFailureError(errors.New("dial tcp: connection refused")),
			args:    []string{"plan", "--waypoint", "1,1"},
			wantErr: "could not contact server dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, &fakeRunner{planErr: tt.planErr}, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestReplayCommand(t *testing.T) {
	runner := &fakeRunner{
		byRoute: map[int64]string{
			11: `{"id":11}`,
			12: `{"id":12}`,
		},
	}

	stdout, _, err := execute(t, runner, "replay", "--itinerary", "11,12", "--kind", "fastest")

	require.NoError(t, err)
	assert.Equal(t, "{\"id\":11}\n{\"id\":12}\n", stdout)
}

func TestReplayCommand_PartialFailure(t *testing.T) {
	runner := &fakeRunner{
		byRoute:  map[int64]string{11: `{"id":11}`},
		failures: map[int64]error{404: domain.NewNotFoundError("route", "404")},
	}

	stdout, stderr, err := execute(t, runner, "replay", "--itinerary", "11", "--itinerary", "404")

	require.Error(t, err)
	assert.Equal(t, "1 of 2 itineraries failed", err.Error())
	assert.Equal(t, "{\"id\":11}\n", stdout)
	assert.Contains(t, stderr, "itinerary 404: route not found")
}

func TestReplayCommand_RequiresItinerary(t *testing.T) {
	_, _, err := execute(t, &fakeRunner{}, "replay")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--itinerary")
}

func TestRootCommand_FactoryError(t *testing.T) {
	root := newRootCmd(func(string, io.Writer) (routeRunner, error) {
		return nil, errors.New("loading config: boom")
	})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"replay", "--itinerary", "1", "--profile", "qa"})

	err := root.Execute()

	require.Error(t, err)
	assert.Equal(t, "loading config: boom", err.Error())
}
