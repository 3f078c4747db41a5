// Package seed performs the one-time reference-data bootstrap: loading
// the airport, engine, aircraft and people catalogs from JSON files
// into the database. The tracker treats all of this as immutable
// reference data.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhawton/log4g"

	"github.com/unklstewy/flightlog/internal/db"
	"github.com/unklstewy/flightlog/internal/tracker"
	"github.com/unklstewy/flightlog/pkg/geo"
)

var log = log4g.Category("seed")

// airportEntry matches the airports.json catalog shape. The file is a
// JSON object keyed by ICAO code; elevation is in feet.
type airportEntry struct {
	Name      string  `json:"name"`
	ICAO      string  `json:"icao"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Elevation float64 `json:"elevation"`
}

// engineEntry matches the engines.json catalog shape.
type engineEntry struct {
	Model     string  `json:"model"`
	FullLTOKg float64 `json:"full_lto_kg"`
	CruiseKgS float64 `json:"cruise_kg_s"`
}

// aircraftEntry matches the aircraft.json catalog shape. Engines are
// referenced by model name and resolved during loading.
type aircraftEntry struct {
	Registration string `json:"registration"`
	Name         string `json:"name"`
	EngineCount  int    `json:"engine_count"`
	EngineModel  string `json:"engine_model"`
}

// personEntry matches the people.json catalog shape. Aircraft are
// referenced by registration and resolved during loading.
type personEntry struct {
	Name                  string   `json:"name"`
	ImageURL              string   `json:"image_url"`
	Description           string   `json:"description"`
	AboutURL              string   `json:"about_url"`
	AircraftRegistrations []string `json:"aircraft_registrations"`
}

// Seeder loads the reference catalogs into the database.
type Seeder struct {
	airports  *db.AirportRepository
	aircraft  *db.AircraftRepository
	reference *db.ReferenceRepository
}

// New creates a seeder over the given repositories.
func New(airports *db.AirportRepository, aircraft *db.AircraftRepository, reference *db.ReferenceRepository) *Seeder {
	return &Seeder{
		airports:  airports,
		aircraft:  aircraft,
		reference: reference,
	}
}

// Run loads every catalog from dir. Engines load before aircraft and
// aircraft before people, since each references the previous by name.
func (s *Seeder) Run(ctx context.Context, dir string) error {
	if err := s.loadAirports(ctx, filepath.Join(dir, "airports.json")); err != nil {
		return err
	}
	if err := s.loadEngines(ctx, filepath.Join(dir, "engines.json")); err != nil {
		return err
	}
	if err := s.loadAircraft(ctx, filepath.Join(dir, "aircraft.json")); err != nil {
		return err
	}
	if err := s.loadPeople(ctx, filepath.Join(dir, "people.json")); err != nil {
		return err
	}

	log.Info("reference data loaded")
	return nil
}

func (s *Seeder) loadAirports(ctx context.Context, path string) error {
	var entries map[string]airportEntry
	if err := readJSON(path, &entries); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("loading %d airports", len(entries)))
	for _, entry := range entries {
		_, err := s.airports.Insert(ctx, tracker.Airport{
			Name:      entry.Name,
			ICAO:      entry.ICAO,
			Latitude:  entry.Lat,
			Longitude: entry.Lon,
			AltitudeM: geo.FeetToMeters(entry.Elevation),
		})
		if err != nil {
			return fmt.Errorf("failed to load airport %s: %w", entry.ICAO, err)
		}
	}

	return nil
}

func (s *Seeder) loadEngines(ctx context.Context, path string) error {
	var entries []engineEntry
	if err := readJSON(path, &entries); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("loading %d engines", len(entries)))
	for _, entry := range entries {
		_, err := s.reference.InsertEngine(ctx, entry.Model, entry.FullLTOKg, entry.CruiseKgS)
		if err != nil {
			return fmt.Errorf("failed to load engine %s: %w", entry.Model, err)
		}
	}

	return nil
}

func (s *Seeder) loadAircraft(ctx context.Context, path string) error {
	var entries []aircraftEntry
	if err := readJSON(path, &entries); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("loading %d aircraft", len(entries)))
	for _, entry := range entries {
		engineID, err := s.reference.EngineIDByModel(ctx, entry.EngineModel)
		if err != nil {
			return fmt.Errorf("failed to resolve engine for %s: %w", entry.Registration, err)
		}
		if engineID == 0 {
			return fmt.Errorf("aircraft %s references unknown engine %q", entry.Registration, entry.EngineModel)
		}

		_, err = s.aircraft.Insert(ctx, tracker.Aircraft{
			Registration: entry.Registration,
			Name:         entry.Name,
			EngineCount:  entry.EngineCount,
			EngineID:     engineID,
		})
		if err != nil {
			return fmt.Errorf("failed to load aircraft %s: %w", entry.Registration, err)
		}
	}

	return nil
}

func (s *Seeder) loadPeople(ctx context.Context, path string) error {
	var entries []personEntry
	if err := readJSON(path, &entries); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("loading %d people", len(entries)))
	for _, entry := range entries {
		personID, err := s.reference.InsertPerson(ctx, entry.Name, entry.ImageURL, entry.Description, entry.AboutURL)
		if err != nil {
			return fmt.Errorf("failed to load person %s: %w", entry.Name, err)
		}

		for _, registration := range entry.AircraftRegistrations {
			aircraft, err := s.aircraft.GetByRegistration(ctx, registration)
			if err != nil {
				return fmt.Errorf("failed to resolve aircraft %s: %w", registration, err)
			}
			if aircraft == nil {
				return fmt.Errorf("person %s references unknown aircraft %q", entry.Name, registration)
			}
			if err := s.reference.LinkPersonAircraft(ctx, personID, aircraft.ID); err != nil {
				return fmt.Errorf("failed to link %s to %s: %w", entry.Name, registration, err)
			}
		}
	}

	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
