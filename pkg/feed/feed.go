// Package feed provides a client for ADS-B Exchange style position feeds.
//
// The feed exposes a per-registration endpoint returning the aircraft's
// current track along with the feed server's timestamp. Responses carry
// zero or one active tracks for a registration.
package feed

import "context"

// Track is a single active track entry for an aircraft.
// Optional fields are pointers so missing JSON keys are distinguishable
// from zero values.
type Track struct {
	// Lat is latitude in decimal degrees
	Lat *float64 `json:"lat"`

	// Lon is longitude in decimal degrees
	Lon *float64 `json:"lon"`

	// AltBaro is barometric altitude in feet.
	// Note: Can be the string "ground" or a float.
	AltBaro interface{} `json:"alt_baro"`

	// Gs is ground speed in knots
	Gs *float64 `json:"gs"`

	// Track is ground track in degrees (0-360)
	Track *float64 `json:"track"`

	// TrueHeading is the true heading in degrees, when broadcast
	TrueHeading *float64 `json:"true_heading"`

	// SeenPos is seconds since the last position message
	SeenPos *float64 `json:"seen_pos"`

	// Flight is the callsign/flight number
	Flight *string `json:"flight"`
}

// Snapshot is the feed response for one registration.
type Snapshot struct {
	// Now is the feed server timestamp in epoch milliseconds
	Now int64 `json:"now"`

	// Tracks is the array of active tracks (zero or one entries)
	Tracks []Track `json:"ac"`

	// Total number of tracks
	Total int `json:"total"`
}

// Source is the interface that all position feed providers must implement.
// This abstraction allows switching between online services and local
// SDR receivers without touching the poller.
type Source interface {
	// ByRegistration returns the current snapshot for an aircraft
	// registration. A snapshot with zero tracks means the feed has no
	// current position for the aircraft; that is not an error.
	ByRegistration(ctx context.Context, registration string) (*Snapshot, error)

	// Close cleanly shuts down the feed connection.
	Close() error
}
