package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema. The DDL is shared by SQLite and PostgreSQL.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		zone TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		delivery_window INTEGER NOT NULL DEFAULT 0,
		handling TEXT NOT NULL DEFAULT 'standard'
	);
	`

	createLinksQuery := `
	CREATE TABLE IF NOT EXISTS links (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		minutes INTEGER NOT NULL CHECK (minutes > 0),
		PRIMARY KEY (origin, destination)
	);
	`

	createCargoQuery := `
	CREATE TABLE IF NOT EXISTS cargo (
		cargo_id INTEGER PRIMARY KEY,
		weight_kg INTEGER NOT NULL,
		handling TEXT NOT NULL DEFAULT 'standard',
		destination TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		sorting_center TEXT NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		route_json TEXT NOT NULL,
		expires_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_cargo_sorting_center
	ON cargo(sorting_center);
	`

	statements := []string{
		createLocationsQuery,
		createLinksQuery,
		createCargoQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
