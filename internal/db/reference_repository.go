package db

import (
	"context"
	"database/sql"
	"fmt"
)

// ReferenceRepository handles the engine and people catalogs.
// Both are write-once reference data loaded by the bootstrap; the
// tracker never touches them.
type ReferenceRepository struct {
	db *DB
}

// NewReferenceRepository creates a new reference repository.
func NewReferenceRepository(db *DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// InsertEngine adds an engine model and returns its generated id.
func (r *ReferenceRepository) InsertEngine(ctx context.Context, model string, fullLTOKg, cruiseKgS float64) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO engines (model, full_lto_kg, cruise_kg_s)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (model) DO UPDATE SET
			full_lto_kg = EXCLUDED.full_lto_kg,
			cruise_kg_s = EXCLUDED.cruise_kg_s
		 RETURNING id`,
		model, fullLTOKg, cruiseKgS,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert engine: %w", err)
	}

	return id, nil
}

// EngineIDByModel returns the id of the engine with the given model
// name, or 0 if unknown.
func (r *ReferenceRepository) EngineIDByModel(ctx context.Context, model string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM engines WHERE model = $1`,
		model,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query engine: %w", err)
	}

	return id, nil
}

// InsertPerson adds a person and returns their generated id.
func (r *ReferenceRepository) InsertPerson(ctx context.Context, name, imageURL, description, aboutURL string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO people (name, image_url, description, about_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, imageURL, description, aboutURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert person: %w", err)
	}

	return id, nil
}

// LinkPersonAircraft associates a person with an aircraft they operate.
func (r *ReferenceRepository) LinkPersonAircraft(ctx context.Context, personID, aircraftID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO person_aircraft (person_id, aircraft_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		personID, aircraftID,
	)
	if err != nil {
		return fmt.Errorf("failed to link person to aircraft: %w", err)
	}

	return nil
}
