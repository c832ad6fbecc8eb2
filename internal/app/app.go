// Package app is the composition root shared by the server and the CLI.
// It turns a config.Config into concrete adapters behind the ports.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"route-profit-service/internal/adapters/cache"
	"route-profit-service/internal/adapters/geocode"
	"route-profit-service/internal/adapters/repositories"
	"route-profit-service/internal/config"
	"route-profit-service/internal/platform/db"
	"route-profit-service/internal/ports"
	"route-profit-service/internal/services"
)

type App struct {
	Config   *config.Config
	DB       *sql.DB
	History  ports.HistoryRepository
	Geocoder ports.Geocoder
	Regions  *services.RegionTable

	redis *cache.RedisGeocodeCache
}

// New opens the history store, prepares its schema and builds the geocoder chain.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	regions, err := loadRegions(cfg.RegionTablePath)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.Regions = regions

	if err := a.openHistory(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	if err := a.buildGeocoder(); err != nil {
		a.Close()
		return nil, fmt.Errorf("app: %w", err)
	}

	return a, nil
}

func loadRegions(path string) (*services.RegionTable, error) {
	if path == "" {
		return services.DefaultRegions(), nil
	}
	t, err := services.LoadRegionTableFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("region table loaded path=%s", path)
	return t, nil
}

func (a *App) openHistory() error {
	cfg := a.Config

	switch cfg.HistoryStore {
	case config.StorePostgres:
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := repositories.InitPostgresSchema(conn); err != nil {
			conn.Close()
			return err
		}
		a.DB = conn
		a.History = repositories.NewSQLHistoryRepository(conn, cfg.HistoryLimit)

	default:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return err
		}
		a.DB = conn
		a.History = repositories.NewSqliteHistoryRepository(conn, cfg.HistoryLimit)
	}

	log.Printf("history store ready store=%s limit=%d", cfg.HistoryStore, cfg.HistoryLimit)
	return nil
}

func (a *App) buildGeocoder() error {
	cfg := a.Config

	nominatim, err := geocode.NewNominatimGeocoder(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderCountry)
	if err != nil {
		return err
	}

	var geocodeCache ports.GeocodeCache
	switch cfg.GeocodeCache {
	case config.CacheSQL:
		if cfg.HistoryStore == config.StorePostgres {
			geocodeCache = cache.NewSQLGeocodeCache(a.DB, cfg.GeocodeCacheTTL)
		} else {
			geocodeCache = cache.NewSqliteGeocodeCache(a.DB, cfg.GeocodeCacheTTL)
		}
	case config.CacheRedis:
		rc, err := cache.NewRedisGeocodeCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.GeocodeCacheTTL)
		if err != nil {
			return err
		}
		a.redis = rc
		geocodeCache = rc
	}

	if geocodeCache == nil {
		a.Geocoder = nominatim
	} else {
		a.Geocoder = geocode.NewCachedGeocoder(nominatim, geocodeCache)
	}

	log.Printf("geocoder ready base_url=%s cache=%s", cfg.GeocoderBaseURL, cfg.GeocodeCache)
	return nil
}

// ResolveOptions returns the calculator options derived from the configuration.
func (a *App) ResolveOptions() services.ResolveOptions {
	return services.ResolveOptions{
		LookupTimeout: a.Config.GeocodeTimeout,
		Concurrency:   a.Config.GeocodeConcurrency,
		Regions:       a.Regions,
	}
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
