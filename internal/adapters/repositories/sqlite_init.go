package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"route-profit-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS route_history (
		id INTEGER PRIMARY KEY,
		driver TEXT NOT NULL,
		origin TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        city TEXT PRIMARY KEY,
        lat REAL NOT NULL,
        lon REAL NOT NULL,
        cached_at INTEGER NOT NULL
    );
	`

	createDriverIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_history_driver
    ON route_history(driver);
	`

	createOriginIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_history_origin
    ON route_history(origin);
	`

	return execSchema(db, "init schema", []string{
		createHistoryQuery,
		createGeocodeCacheQuery,
		createDriverIndexQuery,
		createOriginIndexQuery,
	})
}

// Initialize the PostgreSQL database schema.
func InitPostgresSchema(db *sql.DB) error {
	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS route_history (
		id BIGINT PRIMARY KEY,
		driver TEXT NOT NULL,
		origin TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		payload JSONB NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        city TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL,
        cached_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createDriverIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_history_driver
    ON route_history(driver);
	`

	createOriginIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_history_origin
    ON route_history(origin);
	`

	return execSchema(db, "init postgres schema", []string{
		createHistoryQuery,
		createGeocodeCacheQuery,
		createDriverIndexQuery,
		createOriginIndexQuery,
	})
}

func execSchema(db *sql.DB, op string, statements []string) error {
	if db == nil {
		return fmt.Errorf("%s: DB is nil", op)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}

// HistoryRestorer writes entries back with their original ids.
type HistoryRestorer interface {
	Restore(ctx context.Context, entries []*domain.HistoryEntry) error
}

// Populate the route history from a JSON backup file.
func SeedHistoryFromJSON(ctx context.Context, repo HistoryRestorer, jsonPath string) (int, error) {
	f, err := os.Open(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed history: open %q: %w", jsonPath, err)
	}
	defer f.Close()

	entries, err := ReadHistoryJSON(f)
	if err != nil {
		return 0, fmt.Errorf("seed history: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	for i, e := range entries {
		if len(e.Destinations) == 0 {
			return 0, fmt.Errorf("seed history: entry at index %d has no destinations", i)
		}
	}

	if err := repo.Restore(ctx, entries); err != nil {
		return 0, fmt.Errorf("seed history: %w", err)
	}

	return len(entries), nil
}

var errNilDB = errors.New("history repository: DB is nil")
