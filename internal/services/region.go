package services

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"route-profit-service/internal/domain"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultRegionsYAML []byte

type regionFile struct {
	DefaultState    string                `yaml:"default_state"`
	NationalAverage fuelPrices            `yaml:"national_average"`
	Cities          map[string]string     `yaml:"cities"`
	Prices          map[string]fuelPrices `yaml:"prices"`
}

type fuelPrices struct {
	Diesel   float64 `yaml:"diesel"`
	Gasoline float64 `yaml:"gasoline"`
}

// RegionTable maps cities to states and states to average fuel prices.
// It is immutable after loading and safe for concurrent use.
type RegionTable struct {
	defaultState string
	fallback     fuelPrices
	cities       map[string]string
	prices       map[string]fuelPrices

	// City keys ordered longest first, then lexically, so the substring
	// fallback always picks the same (most specific) match.
	scanOrder []string
}

var defaultRegions = sync.OnceValues(func() (*RegionTable, error) {
	return LoadRegionTable(bytes.NewReader(defaultRegionsYAML))
})

// DefaultRegions returns the embedded region table.
func DefaultRegions() *RegionTable {
	t, err := defaultRegions()
	if err != nil {
		panic(fmt.Sprintf("embedded region table is invalid: %v", err))
	}
	return t
}

// LoadRegionTableFile reads a region table override from disk.
func LoadRegionTableFile(path string) (*RegionTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load region table: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := LoadRegionTable(f)
	if err != nil {
		return nil, fmt.Errorf("load region table %q: %w", path, err)
	}
	return t, nil
}

// LoadRegionTable parses a YAML region table.
func LoadRegionTable(r io.Reader) (*RegionTable, error) {
	var raw regionFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode region table: %w", err)
	}

	if strings.TrimSpace(raw.DefaultState) == "" {
		return nil, errors.New("region table: default_state must not be empty")
	}
	if raw.NationalAverage.Diesel <= 0 || raw.NationalAverage.Gasoline <= 0 {
		return nil, errors.New("region table: national_average prices must be positive")
	}

	t := &RegionTable{
		defaultState: raw.DefaultState,
		fallback:     raw.NationalAverage,
		cities:       make(map[string]string, len(raw.Cities)),
		prices:       make(map[string]fuelPrices, len(raw.Prices)),
	}

	for city, state := range raw.Cities {
		key := normalizeCity(city)
		if key == "" {
			return nil, errors.New("region table: empty city key")
		}
		t.cities[key] = state
		t.scanOrder = append(t.scanOrder, key)
	}
	for state, p := range raw.Prices {
		t.prices[state] = p
	}

	slices.SortFunc(t.scanOrder, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	return t, nil
}

func normalizeCity(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// StateFor resolves the state of a free-text city name.
// Exact matches win; otherwise the longest table key contained in the
// name (or containing it) is used; otherwise the default state.
func (t *RegionTable) StateFor(city string) string {
	key := normalizeCity(city)
	if key == "" {
		return t.defaultState
	}

	if state, ok := t.cities[key]; ok {
		return state
	}

	for _, candidate := range t.scanOrder {
		if strings.Contains(key, candidate) || strings.Contains(candidate, key) {
			return t.cities[candidate]
		}
	}

	return t.defaultState
}

// PriceFor returns the average price per liter of a fuel in a state,
// falling back to the national average for unknown states.
func (t *RegionTable) PriceFor(state string, fuel domain.FuelType) float64 {
	p, ok := t.prices[state]
	if !ok {
		p = t.fallback
	}

	switch fuel {
	case domain.FuelGasoline:
		if p.Gasoline > 0 {
			return p.Gasoline
		}
		return t.fallback.Gasoline
	default:
		if p.Diesel > 0 {
			return p.Diesel
		}
		return t.fallback.Diesel
	}
}
