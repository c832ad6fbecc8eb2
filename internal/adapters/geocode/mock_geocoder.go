package geocode

import (
	"context"
	"route-profit-service/internal/domain"
	"sync"
)

type MockPlace struct {
	City   string
	Coords domain.Coordinates
}

// MockGeocoder resolves a fixed set of cities and counts lookups.
// Unknown cities return domain.ErrLocationNotFound.
type MockGeocoder struct {
	m map[string]domain.Coordinates

	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func NewMockGeocoder(places []MockPlace) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for _, p := range places {
		m[p.City] = p.Coords
	}
	return &MockGeocoder{m: m, fail: make(map[string]error)}
}

// FailWith makes every lookup of city return err.
func (g *MockGeocoder) FailWith(city string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail[city] = err
}

func (g *MockGeocoder) Resolve(ctx context.Context, city string) (domain.Coordinates, error) {
	g.mu.Lock()
	g.calls = append(g.calls, city)
	failErr := g.fail[city]
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	if failErr != nil {
		return domain.Coordinates{}, failErr
	}

	c, ok := g.m[city]
	if !ok {
		return domain.Coordinates{}, domain.ErrLocationNotFound
	}
	return c, nil
}

// Calls returns the cities looked up so far, in call order.
func (g *MockGeocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}
