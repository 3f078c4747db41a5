package db

import (
	"context"
	"fmt"

	"github.com/unklstewy/flightlog/internal/tracker"
)

// TripRepository handles database operations for derived trips.
// Trips are append-only; one row per completed ground-flight-ground cycle.
type TripRepository struct {
	db *DB
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

// Insert appends a new trip and returns its generated id.
func (r *TripRepository) Insert(ctx context.Context, trip tracker.Trip) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO trips (
			aircraft_id, origin_position_id, destination_position_id, timestamp
		) VALUES ($1, $2, $3, $4)
		RETURNING id`,
		trip.AircraftID, trip.OriginPositionID, trip.DestinationPositionID, trip.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert trip: %w", err)
	}

	return id, nil
}

// ListForAircraft returns an aircraft's trips, newest first.
func (r *TripRepository) ListForAircraft(ctx context.Context, aircraftID int64) ([]tracker.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, aircraft_id, origin_position_id, destination_position_id, timestamp
		 FROM trips
		 WHERE aircraft_id = $1
		 ORDER BY timestamp DESC`,
		aircraftID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []tracker.Trip
	for rows.Next() {
		var trip tracker.Trip
		err := rows.Scan(
			&trip.ID, &trip.AircraftID,
			&trip.OriginPositionID, &trip.DestinationPositionID,
			&trip.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}
