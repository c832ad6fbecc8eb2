package services

import (
	"context"
	"errors"
	"math"
	"route-profit-service/internal/adapters/geocode"
	"route-profit-service/internal/domain"
	"testing"
	"time"
)

var (
	saoPaulo = domain.Coordinates{Lat: -23.55, Lon: -46.63}
	rio      = domain.Coordinates{Lat: -22.90, Lon: -43.17}
	campinas = domain.Coordinates{Lat: -22.9056, Lon: -47.0608}
	santos   = domain.Coordinates{Lat: -23.9608, Lon: -46.3336}
)

func newTestGeocoder() *geocode.MockGeocoder {
	return geocode.NewMockGeocoder([]geocode.MockPlace{
		{City: "São Paulo, SP", Coords: saoPaulo},
		{City: "Rio de Janeiro, RJ", Coords: rio},
		{City: "Campinas", Coords: campinas},
		{City: "Santos", Coords: santos},
	})
}

func TestCalculateRouteScenario(t *testing.T) {
	g := newTestGeocoder()

	req := CalculateRouteRequest{
		Driver: "Ana",
		Origin: "São Paulo, SP",
		Destinations: []domain.Destination{
			{City: "Rio de Janeiro, RJ", Packages: 50, ValuePerPackage: 25.50},
		},
		RouteCost: 400,
	}

	r, err := CalculateRoute(context.Background(), req, g, ResolveOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(r.TotalRevenue, 1275) {
		t.Fatalf("revenue: got %v, want 1275", r.TotalRevenue)
	}
	if r.TotalCost != 400 {
		t.Fatalf("total cost: got %v, want 400", r.TotalCost)
	}
	if !almostEqual(r.Profit, 875) {
		t.Fatalf("profit: got %v, want 875", r.Profit)
	}
	if math.Abs(r.ProfitMargin-68.627) > 0.01 {
		t.Fatalf("margin: got %v, want ~68.6", r.ProfitMargin)
	}
	if r.TotalDistance != 361 {
		t.Fatalf("distance: got %d, want 361", r.TotalDistance)
	}
	if !almostEqual(r.TotalTravelTime, float64(r.TotalDistance)/60) {
		t.Fatalf("travel time: got %v", r.TotalTravelTime)
	}
	if r.FuelCost != r.FuelAnalysis.Option(r.FuelAnalysis.Recommendation).FuelCost {
		t.Fatalf("fuel cost %v does not match the recommended option", r.FuelCost)
	}
	if r.FuelAnalysis.Region != "São Paulo" {
		t.Fatalf("region: got %q", r.FuelAnalysis.Region)
	}
	if r.Destinations[0].ID == "" {
		t.Fatal("expected destination id to be assigned")
	}
}

func TestCalculateRouteBreakdownFollowsInputOrder(t *testing.T) {
	g := newTestGeocoder()

	req := CalculateRouteRequest{
		Origin: "São Paulo, SP",
		Destinations: []domain.Destination{
			{City: "Campinas", Packages: 10, ValuePerPackage: 5},
			{City: "Santos", Packages: 3, ValuePerPackage: 10},
			{City: "Rio de Janeiro, RJ", Packages: 0, ValuePerPackage: 0},
		},
		RouteCost: 100,
	}

	for _, concurrency := range []int{1, 4} {
		r, err := CalculateRoute(context.Background(), req, g, ResolveOptions{Concurrency: concurrency})
		if err != nil {
			t.Fatalf("concurrency %d: unexpected error: %v", concurrency, err)
		}

		if len(r.DistanceBreakdown) != len(r.Destinations) {
			t.Fatalf("expected %d segments, got %d", len(r.Destinations), len(r.DistanceBreakdown))
		}

		wantPairs := [][2]string{
			{"São Paulo, SP", "Campinas"},
			{"Campinas", "Santos"},
			{"Santos", "Rio de Janeiro, RJ"},
		}
		sum := 0
		for i, s := range r.DistanceBreakdown {
			if s.From != wantPairs[i][0] || s.To != wantPairs[i][1] {
				t.Fatalf("segment %d: got %s -> %s", i, s.From, s.To)
			}
			sum += s.Distance
		}
		if sum != r.TotalDistance {
			t.Fatalf("segments sum %d != total %d", sum, r.TotalDistance)
		}

		if r.TotalPackages != 13 {
			t.Fatalf("packages: got %d, want 13", r.TotalPackages)
		}
		if !almostEqual(r.TotalRevenue, 80) {
			t.Fatalf("revenue: got %v, want 80", r.TotalRevenue)
		}
	}
}

func TestCalculateRouteZeroRevenueHasZeroMargin(t *testing.T) {
	g := newTestGeocoder()

	req := CalculateRouteRequest{
		Origin:       "Campinas",
		Destinations: []domain.Destination{{City: "Santos"}},
		RouteCost:    250,
	}

	r, err := CalculateRoute(context.Background(), req, g, ResolveOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ProfitMargin != 0 {
		t.Fatalf("margin: got %v, want 0", r.ProfitMargin)
	}
	if r.Profit != -250 {
		t.Fatalf("profit: got %v, want -250", r.Profit)
	}
}

func TestCalculateRouteValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   CalculateRouteRequest
		field string
	}{
		{
			name:  "empty origin",
			req:   CalculateRouteRequest{Origin: " ", Destinations: []domain.Destination{{City: "Santos"}}},
			field: "origin",
		},
		{
			name:  "no destinations",
			req:   CalculateRouteRequest{Origin: "Campinas"},
			field: "destinations",
		},
		{
			name:  "empty destination city",
			req:   CalculateRouteRequest{Origin: "Campinas", Destinations: []domain.Destination{{City: "Santos"}, {City: ""}}},
			field: "destinations[1].city",
		},
		{
			name:  "negative packages",
			req:   CalculateRouteRequest{Origin: "Campinas", Destinations: []domain.Destination{{City: "Santos", Packages: -1}}},
			field: "destinations[0].packages",
		},
		{
			name:  "negative route cost",
			req:   CalculateRouteRequest{Origin: "Campinas", Destinations: []domain.Destination{{City: "Santos"}}, RouteCost: -1},
			field: "route_cost",
		},
	}

	for _, tt := range tests {
		g := newTestGeocoder()

		_, err := CalculateRoute(context.Background(), tt.req, g, ResolveOptions{})

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tt.name, err)
		}
		if verr.Problems[0].Field != tt.field {
			t.Fatalf("%s: field: got %q, want %q", tt.name, verr.Problems[0].Field, tt.field)
		}
		if calls := g.Calls(); len(calls) != 0 {
			t.Fatalf("%s: expected no geocoder calls, got %v", tt.name, calls)
		}
	}
}

func TestCalculateRouteUnknownCityAbortsCalculation(t *testing.T) {
	g := newTestGeocoder()

	req := CalculateRouteRequest{
		Origin: "Campinas",
		Destinations: []domain.Destination{
			{City: "Atlantis", Packages: 1, ValuePerPackage: 1},
			{City: "Santos", Packages: 1, ValuePerPackage: 1},
		},
	}

	r, err := CalculateRoute(context.Background(), req, g, ResolveOptions{})
	if r != nil {
		t.Fatalf("expected no result, got %+v", r)
	}

	var rerr *domain.ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if rerr.City != "Atlantis" {
		t.Fatalf("city: got %q, want Atlantis", rerr.City)
	}
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound in chain, got %v", err)
	}

	// Serial resolution stops at the first failure.
	calls := g.Calls()
	if len(calls) != 2 || calls[0] != "Campinas" || calls[1] != "Atlantis" {
		t.Fatalf("calls: got %v, want [Campinas Atlantis]", calls)
	}
}

type slowGeocoder struct{}

func (slowGeocoder) Resolve(ctx context.Context, city string) (domain.Coordinates, error) {
	<-ctx.Done()
	return domain.Coordinates{}, ctx.Err()
}

func TestCalculateRouteLookupTimeoutIsResolutionError(t *testing.T) {
	req := CalculateRouteRequest{
		Origin:       "Campinas",
		Destinations: []domain.Destination{{City: "Santos"}},
	}

	_, err := CalculateRoute(context.Background(), req, slowGeocoder{}, ResolveOptions{LookupTimeout: 10 * time.Millisecond})

	var rerr *domain.ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if rerr.City != "Campinas" {
		t.Fatalf("city: got %q, want Campinas", rerr.City)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestCalculateRouteRevenueIsLinear(t *testing.T) {
	g := newTestGeocoder()

	base := CalculateRouteRequest{
		Origin:       "Campinas",
		Destinations: []domain.Destination{{City: "Santos", Packages: 7, ValuePerPackage: 12.5}},
	}
	doubled := base
	doubled.Destinations = []domain.Destination{{City: "Santos", Packages: 14, ValuePerPackage: 12.5}}

	r1, err := CalculateRoute(context.Background(), base, g, ResolveOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := CalculateRoute(context.Background(), doubled, g, ResolveOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(r2.TotalRevenue, 2*r1.TotalRevenue) {
		t.Fatalf("revenue not linear: %v vs %v", r1.TotalRevenue, r2.TotalRevenue)
	}
}
