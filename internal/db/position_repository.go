package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/unklstewy/flightlog/internal/tracker"
)

// PositionRepository handles database operations for position samples.
// Samples are append-only per aircraft; the only mutation is flipping
// the processed flag, and that is always scoped to explicit ids.
type PositionRepository struct {
	db *DB
}

// NewPositionRepository creates a new position repository.
func NewPositionRepository(db *DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Insert appends a new position sample and returns its generated id.
func (r *PositionRepository) Insert(ctx context.Context, sample tracker.PositionSample) (int64, error) {
	airportID := sql.NullInt64{}
	if sample.AirportID != 0 {
		airportID = sql.NullInt64{Int64: sample.AirportID, Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO positions (
			aircraft_id, latitude, longitude, altitude_m, heading_deg,
			ground_speed_mps, status, airport_id, timestamp, processed
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE
		)
		RETURNING id`,
		sample.AircraftID, sample.Latitude, sample.Longitude,
		sample.AltitudeM, sample.HeadingDeg, sample.GroundSpeedMPS,
		string(sample.Status), airportID, sample.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert position: %w", err)
	}

	return id, nil
}

// Latest returns the most recent sample for an aircraft, or nil if the
// aircraft has no stored samples yet.
func (r *PositionRepository) Latest(ctx context.Context, aircraftID int64) (*tracker.PositionSample, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, aircraft_id, latitude, longitude, altitude_m,
		        heading_deg, ground_speed_mps, status, airport_id,
		        timestamp, processed
		 FROM positions
		 WHERE aircraft_id = $1
		 ORDER BY timestamp DESC
		 LIMIT 1`,
		aircraftID,
	)

	sample, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest position: %w", err)
	}

	return sample, nil
}

// Unprocessed returns every unprocessed sample for an aircraft, ordered
// by timestamp ascending.
func (r *PositionRepository) Unprocessed(ctx context.Context, aircraftID int64) ([]tracker.PositionSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, aircraft_id, latitude, longitude, altitude_m,
		        heading_deg, ground_speed_mps, status, airport_id,
		        timestamp, processed
		 FROM positions
		 WHERE aircraft_id = $1 AND processed = FALSE
		 ORDER BY timestamp ASC`,
		aircraftID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed positions: %w", err)
	}
	defer rows.Close()

	var samples []tracker.PositionSample
	for rows.Next() {
		sample, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		samples = append(samples, *sample)
	}

	return samples, rows.Err()
}

// MarkProcessed sets the processed flag on exactly the given sample ids.
// Samples inserted after the caller read its snapshot are untouched.
func (r *PositionRepository) MarkProcessed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE positions SET processed = TRUE WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to mark positions processed: %w", err)
	}

	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosition(row rowScanner) (*tracker.PositionSample, error) {
	var sample tracker.PositionSample
	var status string
	var airportID sql.NullInt64

	err := row.Scan(
		&sample.ID, &sample.AircraftID,
		&sample.Latitude, &sample.Longitude, &sample.AltitudeM,
		&sample.HeadingDeg, &sample.GroundSpeedMPS, &status,
		&airportID, &sample.Timestamp, &sample.Processed,
	)
	if err != nil {
		return nil, err
	}

	sample.Status = tracker.Status(status)
	if airportID.Valid {
		sample.AirportID = airportID.Int64
	}

	return &sample, nil
}
