package geocode

import (
	"context"
	"log"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/ports"
	"strings"
)

// CachedGeocoder consults a persistent cache before delegating to the
// wrapped geocoder. Not-found results are never stored.
type CachedGeocoder struct {
	inner ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachedGeocoder(inner ports.Geocoder, cache ports.GeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: cache}
}

// CacheKey collapses whitespace and case so equivalent inputs share an entry.
func CacheKey(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

func (c *CachedGeocoder) Resolve(ctx context.Context, city string) (domain.Coordinates, error) {
	key := CacheKey(city)

	// A broken cache degrades to uncached lookups.
	cached, err := c.cache.GetMany(ctx, []string{key})
	if err != nil {
		log.Printf("op=geocode_cache.get key=%q err=%v", key, err)
	} else if coords, ok := cached[key]; ok {
		return coords, nil
	}

	coords, err := c.inner.Resolve(ctx, city)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if err := c.cache.PutMany(ctx, map[string]domain.Coordinates{key: coords}); err != nil {
		log.Printf("op=geocode_cache.put key=%q err=%v", key, err)
	}

	return coords, nil
}

var _ ports.Geocoder = (*CachedGeocoder)(nil)
