// Package tracker contains the core tracking logic: classifying feed
// positions, resolving ground positions to the nearest airport, the
// self-rescheduling per-aircraft position poller, and the trip
// segmentation engine.
package tracker

import (
	"context"
	"time"
)

// Status labels a position sample as on the ground or in flight.
type Status string

const (
	// StatusGround means the aircraft is on the ground
	StatusGround Status = "ground"

	// StatusFlying means the aircraft is airborne
	StatusFlying Status = "flying"
)

// Aircraft is a tracked aircraft from the reference catalog.
// Read-only for the tracker.
type Aircraft struct {
	ID           int64
	Registration string
	Name         string
	EngineCount  int
	EngineID     int64
}

// Airport is reference data from the airport catalog.
// Read-only for the tracker.
type Airport struct {
	ID        int64
	Name      string
	ICAO      string
	Latitude  float64
	Longitude float64
	AltitudeM float64
}

// PositionSample is one timestamped position and kinematic observation
// for an aircraft. Samples are append-only per aircraft and ordered by
// timestamp. The Processed flag is false until a segmentation run
// consumes the sample; once true it is never reset.
type PositionSample struct {
	ID             int64
	AircraftID     int64
	Latitude       float64
	Longitude      float64
	AltitudeM      float64
	HeadingDeg     float64
	GroundSpeedMPS float64
	Status         Status

	// AirportID is the nearest airport, set only for ground samples
	// within resolver tolerances. 0 means unset.
	AirportID int64

	Timestamp time.Time
	Processed bool
}

// Trip is a derived ground→flight→ground cycle, summarized by its
// origin and destination samples. Timestamp equals the origin sample's
// timestamp. Immutable once created.
type Trip struct {
	ID                    int64
	AircraftID            int64
	OriginPositionID      int64
	DestinationPositionID int64
	Timestamp             time.Time
}

// AircraftStore is the read-only aircraft catalog consumed by the poller.
type AircraftStore interface {
	// Get returns the aircraft with the given id, or nil if unknown.
	Get(ctx context.Context, id int64) (*Aircraft, error)

	// ListIDs returns the ids of every known aircraft.
	ListIDs(ctx context.Context) ([]int64, error)
}

// AirportCatalog is the read-only airport reference catalog.
type AirportCatalog interface {
	// FindWithinBox returns airports whose latitude and longitude fall
	// within the given rectangle, in a deterministic order.
	FindWithinBox(ctx context.Context, latMin, latMax, lonMin, lonMax float64) ([]Airport, error)
}

// PositionStore persists and queries position samples.
type PositionStore interface {
	// Insert appends a new sample and returns its id.
	Insert(ctx context.Context, sample PositionSample) (int64, error)

	// Latest returns the most recent sample for an aircraft, or nil if
	// none has been stored yet.
	Latest(ctx context.Context, aircraftID int64) (*PositionSample, error)

	// Unprocessed returns every unprocessed sample for an aircraft,
	// ordered by timestamp ascending.
	Unprocessed(ctx context.Context, aircraftID int64) ([]PositionSample, error)

	// MarkProcessed sets the processed flag on exactly the given sample ids.
	MarkProcessed(ctx context.Context, ids []int64) error
}

// TripStore persists derived trips.
type TripStore interface {
	// Insert appends a new trip and returns its id.
	Insert(ctx context.Context, trip Trip) (int64, error)
}

// Scheduler executes a named job once, at or after now plus delay.
// Fire-and-forget: the tracker consumes nothing beyond successful enqueue.
type Scheduler interface {
	Schedule(name string, delay time.Duration, fn func(context.Context))
}
