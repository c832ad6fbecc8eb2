package config

import (
	"fmt"
	"log"
	"os"
	"route-profit-service/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	CacheNone  = "none"
	CacheSQL   = "sql"
	CacheRedis = "redis"
)

type Config struct {
	Port string

	HistoryStore string
	DBPath       string
	DatabaseURL  string
	HistoryLimit int

	GeocoderBaseURL    string
	GeocoderUserAgent  string
	GeocoderCountry    string
	GeocodeTimeout     time.Duration
	GeocodeConcurrency int

	GeocodeCache    string
	GeocodeCacheTTL time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	RegionTablePath string
}

// LoadDotEnv loads a .env file when present. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port: Get("PORT", "8080"),

		HistoryStore: strings.ToLower(Get("HISTORY_STORE", StoreSQLite)),
		DBPath:       Get("DB_PATH", "data/app.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		HistoryLimit: getIntEnv("HISTORY_LIMIT", domain.HistoryLimit),

		GeocoderBaseURL:    Get("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:  Get("GEOCODER_USER_AGENT", "route-profit-service/1.0"),
		GeocoderCountry:    Get("GEOCODER_COUNTRY", "Brasil"),
		GeocodeTimeout:     getDurationEnv("GEOCODE_TIMEOUT", 10*time.Second),
		GeocodeConcurrency: getIntEnv("GEOCODE_CONCURRENCY", 1),

		GeocodeCache:    strings.ToLower(Get("GEOCODE_CACHE", CacheNone)),
		GeocodeCacheTTL: getDurationEnv("GEOCODE_CACHE_TTL", 30*24*time.Hour),
		RedisAddr:       Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getIntEnv("REDIS_DB", 0),

		RegionTablePath: os.Getenv("REGION_TABLE_PATH"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.HistoryStore {
	case StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required when HISTORY_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("config: unknown HISTORY_STORE %q", c.HistoryStore)
	}

	switch c.GeocodeCache {
	case CacheNone, CacheSQL, CacheRedis:
	default:
		return fmt.Errorf("config: unknown GEOCODE_CACHE %q", c.GeocodeCache)
	}

	if c.HistoryLimit <= 0 {
		return fmt.Errorf("config: HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.GeocodeConcurrency <= 0 {
		return fmt.Errorf("config: GEOCODE_CONCURRENCY must be positive, got %d", c.GeocodeConcurrency)
	}

	return nil
}

// Get returns the environment value of key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("config: invalid duration %s=%q, using %s", key, v, fallback)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("config: invalid integer %s=%q, using %d", key, v, fallback)
	}
	return fallback
}
