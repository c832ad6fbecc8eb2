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

// SQLite backed cache mapping city keys to geographic coordinates.
// Keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSqliteGeocodeCache(db *sql.DB, ttl time.Duration) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db, TTL: ttl}
}

// Fetch cached coordinates for the given cities. Expired rows are ignored.
func (s *SqliteGeocodeCache) GetMany(
	ctx context.Context,
	cities []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.sqlite.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(cities)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, len(uniq)+1)
	for _, c := range uniq {
		ph = append(ph, "?")
		args = append(args, c)
	}
	args = append(args, notBefore(s.TTL).UnixMilli())

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        city,
        lat,
        lon
    FROM geocode_cache
    WHERE city IN (%s)
      AND cached_at >= ?;
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanCoordinates(rows, len(uniq))
}

// Store city -> coordinate mappings in the cache.
func (s *SqliteGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.sqlite.PutMany")(&err)

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
	INSERT OR REPLACE INTO geocode_cache (
        city,
        lat,
        lon,
        cached_at
    )
    VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for city, c := range results {
		if strings.TrimSpace(city) == "" {
			return errors.New("insert geocode cache: empty city key")
		}

		if _, err := stmt.ExecContext(ctx, city, c.Lat, c.Lon, now); err != nil {
			return fmt.Errorf("insert geocode cache city=%q: %w", city, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

// notBefore is the oldest cached_at still considered fresh. A zero TTL
// keeps entries forever.
func notBefore(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.UnixMilli(0)
	}
	return time.Now().Add(-ttl)
}

func scanCoordinates(rows *sql.Rows, size int) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, size)
	for rows.Next() {
		var city string
		var lat, lon float64
		if err := rows.Scan(&city, &lat, &lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[city] = domain.Coordinates{Lat: lat, Lon: lon}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}
	return out, nil
}
