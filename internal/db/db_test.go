package db

import (
	"strings"
	"testing"
)

// TestEmbeddedSchema tests that the embedded schema carries every table
// the repositories query.
func TestEmbeddedSchema(t *testing.T) {
	data, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		t.Fatalf("Expected embedded schema, got: %v", err)
	}

	schema := string(data)
	tables := []string{
		"engines",
		"aircraft",
		"airports",
		"people",
		"person_aircraft",
		"positions",
		"trips",
	}
	for _, table := range tables {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("Expected schema to create table %s", table)
		}
	}

	// The segmentation queue depends on the partial index over
	// unprocessed rows.
	if !strings.Contains(schema, "WHERE processed = FALSE") {
		t.Error("Expected a partial index over unprocessed positions")
	}
}
