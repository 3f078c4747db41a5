package db

import (
	"context"
	"fmt"

	"github.com/unklstewy/flightlog/internal/tracker"
)

// AirportRepository handles database operations for the airport catalog.
// Airports are immutable reference data; the tracker only reads them.
type AirportRepository struct {
	db *DB
}

// NewAirportRepository creates a new airport repository.
func NewAirportRepository(db *DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// FindWithinBox returns airports whose latitude and longitude fall
// within the given rectangle, ordered by id. The id ordering makes the
// resolver's first-candidate tie-break deterministic.
func (r *AirportRepository) FindWithinBox(
	ctx context.Context,
	latMin, latMax, lonMin, lonMax float64,
) ([]tracker.Airport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icao, latitude, longitude, altitude_m
		 FROM airports
		 WHERE latitude BETWEEN $1 AND $2
		   AND longitude BETWEEN $3 AND $4
		 ORDER BY id ASC`,
		latMin, latMax, lonMin, lonMax,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []tracker.Airport
	for rows.Next() {
		var airport tracker.Airport
		err := rows.Scan(
			&airport.ID, &airport.Name, &airport.ICAO,
			&airport.Latitude, &airport.Longitude, &airport.AltitudeM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan airport: %w", err)
		}
		airports = append(airports, airport)
	}

	return airports, rows.Err()
}

// Insert adds an airport to the catalog and returns its generated id.
// Used only by the reference-data bootstrap.
func (r *AirportRepository) Insert(ctx context.Context, airport tracker.Airport) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO airports (name, icao, latitude, longitude, altitude_m)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (icao) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			altitude_m = EXCLUDED.altitude_m
		 RETURNING id`,
		airport.Name, airport.ICAO, airport.Latitude, airport.Longitude, airport.AltitudeM,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert airport: %w", err)
	}

	return id, nil
}

// Count returns the number of airports in the catalog.
func (r *AirportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM airports`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count airports: %w", err)
	}
	return count, nil
}
