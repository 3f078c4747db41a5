package tracker

import (
	"context"
	"fmt"
	"math"

	"github.com/unklstewy/flightlog/pkg/geo"
)

const (
	// AirportSearchBoxDegrees is the half-width of the bounding-box
	// prefilter in degrees. Roughly 110 km at the equator; a cheap
	// index-friendly filter, not an exact radius.
	AirportSearchBoxDegrees = 1.0

	// AirportMaxDistanceM rejects airports farther than this from the
	// query point.
	AirportMaxDistanceM = 50_000.0

	// AirportMaxAltitudeM rejects airports whose elevation is more than
	// this far below the query altitude.
	AirportMaxAltitudeM = 1000.0
)

// AirportResolver finds the closest known airport to a position within
// distance and altitude tolerances.
type AirportResolver struct {
	catalog AirportCatalog
}

// NewAirportResolver creates a resolver backed by the given catalog.
func NewAirportResolver(catalog AirportCatalog) *AirportResolver {
	return &AirportResolver{catalog: catalog}
}

// Resolve returns the id of the nearest airport to the given position,
// or ok=false when no airport qualifies: no candidate inside the
// bounding box, the closest candidate farther than AirportMaxDistanceM,
// or the query altitude more than AirportMaxAltitudeM above the closest
// candidate's elevation.
//
// Ties in distance resolve to the first candidate returned by the
// catalog (lowest id for the database-backed catalog): only a strictly
// smaller distance replaces the current best.
// Read-only; no side effects.
func (r *AirportResolver) Resolve(ctx context.Context, latitude, longitude, altitudeM float64) (int64, bool, error) {
	candidates, err := r.catalog.FindWithinBox(ctx,
		latitude-AirportSearchBoxDegrees, latitude+AirportSearchBoxDegrees,
		longitude-AirportSearchBoxDegrees, longitude+AirportSearchBoxDegrees,
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to query airport catalog: %w", err)
	}

	var nearest *Airport
	nearestDistance := math.Inf(1)

	for i := range candidates {
		d := geo.DistanceMeters(latitude, longitude, candidates[i].Latitude, candidates[i].Longitude)
		if d < nearestDistance {
			nearestDistance = d
			nearest = &candidates[i]
		}
	}

	// Make sure it's close enough and not too high above the field
	if nearest == nil || nearestDistance > AirportMaxDistanceM {
		return 0, false, nil
	}
	if altitudeM > nearest.AltitudeM+AirportMaxAltitudeM {
		return 0, false, nil
	}

	return nearest.ID, true, nil
}
