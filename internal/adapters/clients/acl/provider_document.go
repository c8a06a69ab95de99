package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// bboxLen is the number of values in a two-dimensional GeoJSON bounding box.
const bboxLen = 4

// providerDocument is the external GeoJSON feature collection returned by the
// routing provider. Numbers stay as their JSON text so translated values keep
// the provider's exact formatting.
type providerDocument struct {
	Features []providerFeature `json:"features"`
}

type providerFeature struct {
	BBox       []json.Number      `json:"bbox"`
	Properties providerProperties `json:"properties"`
	Geometry   providerGeometry   `json:"geometry"`
}

type providerProperties struct {
	Segments []providerSegment `json:"segments"`
}

type providerSegment struct {
	Distance json.Number    `json:"distance"`
	Duration json.Number    `json:"duration"`
	Steps    []providerStep `json:"steps"`
}

type providerStep struct {
	Name      string      `json:"name"`
	Distance  json.Number `json:"distance"`
	Duration  json.Number `json:"duration"`
	WayPoints []int       `json:"way_points"`
}

type providerGeometry struct {
	Coordinates [][]json.Number `json:"coordinates"`
}

// coordinate is a [lon, lat] pair as JSON text.
type coordinate struct {
	lon string
	lat string
}

// String renders the pair the way the application route format expects: "lon,lat".
func (c coordinate) String() string {
	return c.lon + "," + c.lat
}

// providerRoute is the validated subset of a provider document used by the translation.
type providerRoute struct {
	bbox        [bboxLen]string
	distance    string
	duration    string
	steps       []providerStep
	coordinates []coordinate
}

// parseProviderRoute decodes raw and checks every shape requirement, returning a
// domain.MalformedResponseError naming the offending path on the first violation.
func parseProviderRoute(raw string) (*providerRoute, error) {
	var doc providerDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, domain.NewMalformedResponseError(decodeErrorPath(err), err)
	}

	if len(doc.Features) == 0 {
		return nil, domain.NewMalformedResponseError("features", errors.New("no features"))
	}

	feature := doc.Features[0]

	if len(feature.BBox) != bboxLen {
		return nil, domain.NewMalformedResponseError("features[0].bbox",
			fmt.Errorf("expected %d values, got %d", bboxLen, len(feature.BBox)))
	}

	route := &providerRoute{}
	for i, v := range feature.BBox {
		route.bbox[i] = v.String()
	}

	if len(feature.Properties.Segments) == 0 {
		return nil, domain.NewMalformedResponseError("features[0].properties.segments", errors.New("no segments"))
	}

	segment := feature.Properties.Segments[0]
	const segmentPath = "features[0].properties.segments[0]"

	if segment.Distance == "" {
		return nil, domain.NewMalformedResponseError(segmentPath+".distance", errors.New("missing"))
	}

	if segment.Duration == "" {
		return nil, domain.NewMalformedResponseError(segmentPath+".duration", errors.New("missing"))
	}

	if len(segment.Steps) == 0 {
		return nil, domain.NewMalformedResponseError(segmentPath+".steps", errors.New("no steps"))
	}

	for i, step := range segment.Steps {
		stepPath := fmt.Sprintf("%s.steps[%d]", segmentPath, i)

		if step.Distance == "" {
			return nil, domain.NewMalformedResponseError(stepPath+".distance", errors.New("missing"))
		}

		if step.Duration == "" {
			return nil, domain.NewMalformedResponseError(stepPath+".duration", errors.New("missing"))
		}

		if len(step.WayPoints) != 2 {
			return nil, domain.NewMalformedResponseError(stepPath+".way_points",
				fmt.Errorf("expected [from, to], got %d values", len(step.WayPoints)))
		}
	}

	route.distance = segment.Distance.String()
	route.duration = segment.Duration.String()
	route.steps = segment.Steps

	route.coordinates = make([]coordinate, 0, len(feature.Geometry.Coordinates))
	for i, pair := range feature.Geometry.Coordinates {
		// A third value, when present, is elevation and is not used.
		if len(pair) < 2 {
			return nil, domain.NewMalformedResponseError(
				fmt.Sprintf("features[0].geometry.coordinates[%d]", i),
				fmt.Errorf("expected [lon, lat], got %d values", len(pair)))
		}

		route.coordinates = append(route.coordinates, coordinate{lon: pair[0].String(), lat: pair[1].String()})
	}

	return route, nil
}

// points renders the coordinates between from and to inclusive as
// space separated "lon,lat" pairs. from > to yields an empty string.
func (r *providerRoute) points(step int, from, to int) (string, error) {
	if from > to {
		return "", nil
	}

	if from < 0 || to >= len(r.coordinates) {
		return "", domain.NewMalformedResponseError(
			fmt.Sprintf("features[0].properties.segments[0].steps[%d].way_points", step),
			fmt.Errorf("range [%d, %d] outside %d coordinates", from, to, len(r.coordinates)))
	}

	var b strings.Builder
	for _, c := range r.coordinates[from : to+1] {
		b.WriteString(c.String())
		b.WriteByte(' ')
	}

	return strings.TrimSpace(b.String()), nil
}

// coordinateString renders every coordinate as "lon,lat " followed by a final ",".
// The trailing space before the comma is part of the application format.
func (r *providerRoute) coordinateString() string {
	var b strings.Builder
	for _, c := range r.coordinates {
		b.WriteString(c.String())
		b.WriteByte(' ')
	}

	b.WriteByte(',')

	return b.String()
}

// decodeErrorPath extracts the JSON path from a decode error when one is known.
func decodeErrorPath(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field
	}

	return ""
}

// truncateNumber drops everything from the first "." of a numeric text.
// Exponent forms are expanded to plain decimals first, so 1.5004e3 gives 1500.
func truncateNumber(text string) string {
	if strings.ContainsAny(text, "eE") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			text = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}

	whole, _, _ := strings.Cut(text, ".")

	return whole
}
