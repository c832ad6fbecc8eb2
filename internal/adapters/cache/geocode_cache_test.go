package cache

import (
	"context"
	"database/sql"
	"route-profit-service/internal/adapters/repositories"
	"route-profit-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "modernc.org/sqlite"
)

func TestSqliteGeocodeCacheRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	ctx := context.Background()
	c := NewSqliteGeocodeCache(db, 0)

	in := map[string]domain.Coordinates{
		"santos":   {Lat: -23.96, Lon: -46.33},
		"campinas": {Lat: -22.91, Lon: -47.06},
	}
	if err := c.PutMany(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"santos", "campinas", "santos", " ", "recife"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["santos"] != in["santos"] {
		t.Fatalf("santos: got %+v, want %+v", got["santos"], in["santos"])
	}

	if err := c.PutMany(ctx, map[string]domain.Coordinates{"": {}}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSqliteGeocodeCacheIgnoresExpiredRows(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	old := time.Now().Add(-2 * time.Hour).UnixMilli()
	if _, err := db.Exec(`INSERT INTO geocode_cache (city, lat, lon, cached_at) VALUES ('natal', 1, 2, ?);`, old); err != nil {
		t.Fatalf("insert: %v", err)
	}

	c := NewSqliteGeocodeCache(db, time.Hour)
	got, err := c.GetMany(context.Background(), []string{"natal"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired row to be a miss, got %v", got)
	}

	c.TTL = 0
	got, err = c.GetMany(context.Background(), []string{"natal"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected a hit without ttl, got %v", got)
	}
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisGeocodeCache(mr.Addr(), "", 0, time.Minute)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	in := map[string]domain.Coordinates{"recife": {Lat: -8.05, Lon: -34.9}}
	if err := c.PutMany(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"recife", "olinda"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got["recife"] != in["recife"] {
		t.Fatalf("got %v, want %v", got, in)
	}

	if ttl := mr.TTL(redisKeyPrefix + "recife"); ttl != time.Minute {
		t.Fatalf("ttl: got %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	got, err = c.GetMany(ctx, []string{"recife"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired key to be a miss, got %v", got)
	}
}

func TestRedisGeocodeCacheSkipsCorruptValues(t *testing.T) {
	mr := miniredis.RunT(t)
	if err := mr.Set(redisKeyPrefix+"natal", "not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c, err := NewRedisGeocodeCache(mr.Addr(), "", 0, 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	got, err := c.GetMany(context.Background(), []string{"natal"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected miss for corrupt value, got %v", got)
	}
}

func TestNewRedisGeocodeCacheFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisGeocodeCache(addr, "", 0, 0); err == nil {
		t.Fatal("expected connection error")
	}
}
