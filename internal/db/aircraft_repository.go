package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/unklstewy/flightlog/internal/tracker"
)

// AircraftRepository handles database operations for the aircraft catalog.
type AircraftRepository struct {
	db *DB
}

// NewAircraftRepository creates a new aircraft repository.
func NewAircraftRepository(db *DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// Get returns the aircraft with the given id, or nil if unknown.
func (r *AircraftRepository) Get(ctx context.Context, id int64) (*tracker.Aircraft, error) {
	var aircraft tracker.Aircraft
	err := r.db.QueryRowContext(ctx,
		`SELECT id, registration, name, engine_count, engine_id
		 FROM aircraft
		 WHERE id = $1`,
		id,
	).Scan(
		&aircraft.ID, &aircraft.Registration, &aircraft.Name,
		&aircraft.EngineCount, &aircraft.EngineID,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft: %w", err)
	}

	return &aircraft, nil
}

// GetByRegistration returns the aircraft with the given registration,
// or nil if unknown.
func (r *AircraftRepository) GetByRegistration(ctx context.Context, registration string) (*tracker.Aircraft, error) {
	var aircraft tracker.Aircraft
	err := r.db.QueryRowContext(ctx,
		`SELECT id, registration, name, engine_count, engine_id
		 FROM aircraft
		 WHERE registration = $1`,
		registration,
	).Scan(
		&aircraft.ID, &aircraft.Registration, &aircraft.Name,
		&aircraft.EngineCount, &aircraft.EngineID,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft: %w", err)
	}

	return &aircraft, nil
}

// ListIDs returns the ids of every known aircraft, in id order.
func (r *AircraftRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM aircraft ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list aircraft: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Insert adds an aircraft to the catalog and returns its generated id.
// Used only by the reference-data bootstrap.
func (r *AircraftRepository) Insert(ctx context.Context, aircraft tracker.Aircraft) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO aircraft (registration, name, engine_count, engine_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (registration) DO UPDATE SET
			name = EXCLUDED.name,
			engine_count = EXCLUDED.engine_count,
			engine_id = EXCLUDED.engine_id
		 RETURNING id`,
		aircraft.Registration, aircraft.Name, aircraft.EngineCount, aircraft.EngineID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert aircraft: %w", err)
	}

	return id, nil
}
