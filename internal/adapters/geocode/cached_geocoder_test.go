package geocode

import (
	"context"
	"errors"
	"route-profit-service/internal/domain"
	"testing"
)

type memoryCache struct {
	m      map[string]domain.Coordinates
	getErr error
}

func (c *memoryCache) GetMany(ctx context.Context, keys []string) (map[string]domain.Coordinates, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	out := make(map[string]domain.Coordinates)
	for _, k := range keys {
		if v, ok := c.m[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (c *memoryCache) PutMany(ctx context.Context, items map[string]domain.Coordinates) error {
	for k, v := range items {
		c.m[k] = v
	}
	return nil
}

func TestCachedGeocoderHitsInnerOnce(t *testing.T) {
	inner := NewMockGeocoder([]MockPlace{
		{City: "Santos", Coords: domain.Coordinates{Lat: -23.96, Lon: -46.33}},
	})
	cache := &memoryCache{m: map[string]domain.Coordinates{}}
	g := NewCachedGeocoder(inner, cache)

	for i := 0; i < 3; i++ {
		c, err := g.Resolve(context.Background(), "Santos")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Lat != -23.96 {
			t.Fatalf("lat: got %v, want -23.96", c.Lat)
		}
	}

	if got := len(inner.Calls()); got != 1 {
		t.Fatalf("expected 1 inner call, got %d", got)
	}
	if _, ok := cache.m["santos"]; !ok {
		t.Fatalf("expected cache key %q, got %v", "santos", cache.m)
	}
}

func TestCachedGeocoderDoesNotCacheNotFound(t *testing.T) {
	inner := NewMockGeocoder(nil)
	cache := &memoryCache{m: map[string]domain.Coordinates{}}
	g := NewCachedGeocoder(inner, cache)

	for i := 0; i < 2; i++ {
		if _, err := g.Resolve(context.Background(), "Atlantis"); !errors.Is(err, domain.ErrLocationNotFound) {
			t.Fatalf("expected ErrLocationNotFound, got %v", err)
		}
	}

	if len(cache.m) != 0 {
		t.Fatalf("expected empty cache, got %v", cache.m)
	}
	if got := len(inner.Calls()); got != 2 {
		t.Fatalf("expected 2 inner calls, got %d", got)
	}
}

func TestCachedGeocoderFallsBackWhenCacheFails(t *testing.T) {
	inner := NewMockGeocoder([]MockPlace{
		{City: "Recife", Coords: domain.Coordinates{Lat: -8.05, Lon: -34.9}},
	})
	cache := &memoryCache{m: map[string]domain.Coordinates{}, getErr: errors.New("down")}
	g := NewCachedGeocoder(inner, cache)

	c, err := g.Resolve(context.Background(), "Recife")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != -8.05 {
		t.Fatalf("lat: got %v, want -8.05", c.Lat)
	}
}
