package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLGeocodeCache is a PostgreSQL-backed cache mapping city keys to coordinates.
type SQLGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLGeocodeCache(db *sql.DB, ttl time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, TTL: ttl}
}

// Fetch cached coordinates for the given cities. Expired rows are ignored.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	cities []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(cities)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	q := `
	SELECT city, lat, lon
    FROM geocode_cache
    WHERE city = ANY($1::text[])
      AND cached_at >= $2;
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq, notBefore(s.TTL))
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanCoordinates(rows, len(uniq))
}

// Store city -> coordinate mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (city, lat, lon, cached_at)
    VALUES ($1, $2, $3, now())
	ON CONFLICT (city) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		cached_at = EXCLUDED.cached_at;
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for city, c := range results {
		if strings.TrimSpace(city) == "" {
			return errors.New("insert geocode cache: empty city key")
		}

		if _, err := stmt.ExecContext(ctx, city, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("insert geocode cache city=%q: %w", city, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
