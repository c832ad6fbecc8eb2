package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "HISTORY_STORE", "GEOCODE_CACHE", "HISTORY_LIMIT", "GEOCODE_TIMEOUT", "GEOCODE_CONCURRENCY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("port: got %q, want 8080", cfg.Port)
	}
	if cfg.HistoryStore != StoreSQLite {
		t.Fatalf("store: got %q, want sqlite", cfg.HistoryStore)
	}
	if cfg.GeocodeCache != CacheNone {
		t.Fatalf("cache: got %q, want none", cfg.GeocodeCache)
	}
	if cfg.HistoryLimit != 500 {
		t.Fatalf("history limit: got %d, want 500", cfg.HistoryLimit)
	}
	if cfg.GeocodeTimeout != 10*time.Second {
		t.Fatalf("timeout: got %v, want 10s", cfg.GeocodeTimeout)
	}
	if cfg.GeocodeConcurrency != 1 {
		t.Fatalf("concurrency: got %d, want 1", cfg.GeocodeConcurrency)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEOCODE_TIMEOUT", "3s")
	t.Setenv("GEOCODE_CONCURRENCY", "4")
	t.Setenv("GEOCODE_CACHE", "REDIS")
	t.Setenv("HISTORY_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GeocodeTimeout != 3*time.Second || cfg.GeocodeConcurrency != 4 {
		t.Fatalf("got timeout=%v concurrency=%d", cfg.GeocodeTimeout, cfg.GeocodeConcurrency)
	}
	if cfg.GeocodeCache != CacheRedis {
		t.Fatalf("cache: got %q, want redis", cfg.GeocodeCache)
	}
	if cfg.HistoryLimit != 500 {
		t.Fatalf("invalid limit should fall back to 500, got %d", cfg.HistoryLimit)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"HISTORY_STORE": "postgres", "DATABASE_URL": ""}},
		{"unknown store", map[string]string{"HISTORY_STORE": "mongo"}},
		{"unknown cache", map[string]string{"GEOCODE_CACHE": "memcached"}},
		{"zero concurrency", map[string]string{"GEOCODE_CONCURRENCY": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
