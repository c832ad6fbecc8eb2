package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route-profit:geocode:"

type redisCoordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RedisGeocodeCache stores coordinates as small JSON values with an optional TTL.
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGeocodeCache connects to redis and verifies the connection.
func NewRedisGeocodeCache(addr, password string, db int, ttl time.Duration) (*RedisGeocodeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis geocode cache: connect %s: %w", addr, err)
	}

	return &RedisGeocodeCache{client: client, ttl: ttl}, nil
}

func (c *RedisGeocodeCache) Close() error {
	return c.client.Close()
}

func (c *RedisGeocodeCache) key(city string) string {
	return redisKeyPrefix + city
}

// Fetch cached coordinates for the given cities in a single MGET.
func (c *RedisGeocodeCache) GetMany(
	ctx context.Context,
	cities []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.GetMany")(&err)

	uniq := uniqueKeys(cities)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, city := range uniq {
		keys = append(keys, c.key(city))
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: redis mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var rc redisCoordinates
		if err := json.Unmarshal([]byte(s), &rc); err != nil {
			// A corrupt entry is a miss; the next put overwrites it.
			log.Printf("op=geocode.cache.redis.decode key=%q err=%v", keys[i], err)
			continue
		}
		out[uniq[i]] = domain.Coordinates{Lat: rc.Lat, Lon: rc.Lon}
	}

	return out, nil
}

// Store city -> coordinate mappings using one pipelined round trip.
func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.redis.PutMany")(&err)

	if len(results) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	for city, coords := range results {
		if strings.TrimSpace(city) == "" {
			return errors.New("insert geocode cache: empty city key")
		}

		b, err := json.Marshal(redisCoordinates{Lat: coords.Lat, Lon: coords.Lon})
		if err != nil {
			return fmt.Errorf("insert geocode cache city=%q: encode: %w", city, err)
		}
		pipe.Set(ctx, c.key(city), b, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: redis exec: %w", err)
	}

	return nil
}
