package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"route-profit-service/internal/adapters/repositories"
	"route-profit-service/internal/domain"
	"testing"
	"time"
)

func TestParseDestination(t *testing.T) {
	tests := []struct {
		in       string
		city     string
		packages int
		value    float64
		wantErr  bool
	}{
		{"Campinas:30:12.5", "Campinas", 30, 12.5, false},
		{"Rio de Janeiro, RJ:10:7,5", "Rio de Janeiro, RJ", 10, 7.5, false},
		{"A:B:2:3", "A:B", 2, 3, false},
		{"Campinas:30", "", 0, 0, true},
		{"Campinas", "", 0, 0, true},
		{"Campinas:x:1", "", 0, 0, true},
	}

	for _, tt := range tests {
		d, err := parseDestination(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if d.City != tt.city || d.Packages != tt.packages || d.ValuePerPackage != tt.value {
			t.Fatalf("%q: got %+v", tt.in, d)
		}
	}
}

func TestParseID(t *testing.T) {
	if _, err := parseID("0"); err == nil {
		t.Fatal("expected error for zero id")
	}
	if _, err := parseID("abc"); err == nil {
		t.Fatal("expected error for non numeric id")
	}
	if id, err := parseID("1700000000000"); err != nil || id != 1700000000000 {
		t.Fatalf("got %d, %v", id, err)
	}
}

func TestRunHistoryRestoreIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HISTORY_STORE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "app.db"))
	t.Setenv("GEOCODE_CACHE", "none")
	t.Setenv("REGION_TABLE_PATH", "")

	entries := []*domain.HistoryEntry{
		{
			ID:   1767261600000,
			Date: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			RouteResult: domain.RouteResult{
				Driver:       "Ana",
				Origin:       "Santos",
				Destinations: []domain.Destination{{City: "Campinas", Packages: 10, ValuePerPackage: 8}},
			},
		},
		{
			ID:   1767348000000,
			Date: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
			RouteResult: domain.RouteResult{
				Driver:       "Bruno",
				Origin:       "Santos",
				Destinations: []domain.Destination{{City: "Sorocaba", Packages: 5, ValuePerPackage: 9}},
			},
		},
	}

	var buf bytes.Buffer
	if err := repositories.WriteHistoryJSON(&buf, entries); err != nil {
		t.Fatalf("write json: %v", err)
	}
	backup := filepath.Join(dir, "backup.json")
	if err := os.WriteFile(backup, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write backup: %v", err)
	}

	ctx := context.Background()
	if err := runHistoryRestore(ctx, backup); err != nil {
		t.Fatalf("restore: %v", err)
	}

	a, err := openApp()
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	defer a.Close()

	got, err := a.History.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("restored: got %d, want 2", len(got))
	}
	if got[0].ID != 1767348000000 || got[0].Driver != "Bruno" {
		t.Fatalf("newest entry: got #%d %s, want #1767348000000 Bruno", got[0].ID, got[0].Driver)
	}

	if err := runHistoryRestore(ctx, filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing backup file")
	}
}
