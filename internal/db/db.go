package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/unklstewy/flightlog/pkg/config"
)

//go:embed schema.sql
var schemaSQL embed.FS

// DB wraps a database connection with helper methods.
type DB struct {
	*sql.DB
	config config.DatabaseConfig
}

// Connect establishes a connection to the PostgreSQL database.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	// Build connection string
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	// Open connection
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		config: cfg,
	}

	return db, nil
}

// InitSchema creates or updates the database schema.
// This should be called once at application startup.
func (db *DB) InitSchema(ctx context.Context) error {
	// Read schema SQL
	schemaBytes, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	// Execute schema
	if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// GetStats returns database statistics.
func (db *DB) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	// Tracked aircraft
	var aircraftCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM aircraft`,
	).Scan(&aircraftCount)
	if err != nil {
		return nil, err
	}
	stats["aircraft"] = aircraftCount

	// Total position records
	var positionCount int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM positions`,
	).Scan(&positionCount)
	if err != nil {
		return nil, err
	}
	stats["position_records"] = positionCount

	// Positions awaiting segmentation
	var unprocessedCount int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM positions WHERE processed = FALSE`,
	).Scan(&unprocessedCount)
	if err != nil {
		return nil, err
	}
	stats["unprocessed_positions"] = unprocessedCount

	// Derived trips
	var tripCount int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trips`,
	).Scan(&tripCount)
	if err != nil {
		return nil, err
	}
	stats["trips"] = tripCount

	return stats, nil
}
