package services

import (
	"context"
	"errors"
	"fmt"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/platform/obs"
	"route-profit-service/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AverageSpeedKmh is the fixed speed used to estimate travel time.
const AverageSpeedKmh = 60.0

const (
	DefaultLookupTimeout = 10 * time.Second
	DefaultConcurrency   = 1
)

type CalculateRouteRequest struct {
	Driver       string
	Origin       string
	Destinations []domain.Destination
	RouteCost    float64
}

// RequestFromProcessed turns an imported spreadsheet row into a calculation request.
func RequestFromProcessed(p domain.ProcessedRoute) CalculateRouteRequest {
	return CalculateRouteRequest{
		Driver:       p.Driver,
		Origin:       p.Origin,
		Destinations: p.Destinations,
		RouteCost:    p.RouteCost,
	}
}

// ResolveOptions controls how cities are geocoded during a calculation.
type ResolveOptions struct {
	// LookupTimeout bounds every single geocoder call.
	LookupTimeout time.Duration
	// Concurrency is the number of lookups allowed in flight. 1 keeps
	// lookups serial, which is what public geocoders expect.
	Concurrency int
	// Regions overrides the embedded region table when set.
	Regions *RegionTable
}

func (o ResolveOptions) withDefaults() ResolveOptions {
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = DefaultLookupTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Regions == nil {
		o.Regions = DefaultRegions()
	}
	return o
}

// CalculateRoute geocodes every city of the request, builds the distance
// breakdown and derives the fuel and financial figures of the route.
// Nothing is returned unless every step succeeds.
func CalculateRoute(
	ctx context.Context,
	req CalculateRouteRequest,
	geocoder ports.Geocoder,
	opts ResolveOptions,
) (_ *domain.RouteResult, err error) {
	if err := validateRouteRequest(req); err != nil {
		return nil, err
	}

	defer obs.Time(ctx, "calculate_route")(&err)

	opts = opts.withDefaults()

	origin := strings.TrimSpace(req.Origin)
	dests := make([]domain.Destination, len(req.Destinations))
	cities := make([]string, 0, len(req.Destinations)+1)
	cities = append(cities, origin)
	for i, d := range req.Destinations {
		d.City = strings.TrimSpace(d.City)
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		dests[i] = d
		cities = append(cities, d.City)
	}

	coords, err := resolveCities(ctx, geocoder, cities, opts)
	if err != nil {
		return nil, err
	}

	breakdown := make([]domain.Segment, 0, len(dests))
	totalDistance := 0
	for i := 1; i < len(cities); i++ {
		km := Distance(coords[i-1], coords[i])
		breakdown = append(breakdown, domain.Segment{
			From:     cities[i-1],
			To:       cities[i],
			Distance: km,
		})
		totalDistance += km
	}

	fuel := AnalyzeFuel(opts.Regions, totalDistance, origin)

	totalPackages := 0
	totalRevenue := 0.0
	for _, d := range dests {
		totalPackages += d.Packages
		totalRevenue += float64(d.Packages) * d.ValuePerPackage
	}

	// Fuel is informational and does not reduce the profit of the route.
	totalCost := req.RouteCost
	profit := totalRevenue - totalCost
	margin := 0.0
	if totalRevenue > 0 {
		margin = profit / totalRevenue * 100
	}

	return &domain.RouteResult{
		Driver:            strings.TrimSpace(req.Driver),
		Origin:            origin,
		Destinations:      dests,
		TotalDistance:     totalDistance,
		TotalTravelTime:   float64(totalDistance) / AverageSpeedKmh,
		TotalPackages:     totalPackages,
		TotalRevenue:      totalRevenue,
		RouteCost:         req.RouteCost,
		FuelCost:          fuel.Option(fuel.Recommendation).FuelCost,
		FuelAnalysis:      fuel,
		TotalCost:         totalCost,
		Profit:            profit,
		ProfitMargin:      margin,
		DistanceBreakdown: breakdown,
	}, nil
}

// CalculateAndRecord calculates a route and appends it to the history.
func CalculateAndRecord(
	ctx context.Context,
	req CalculateRouteRequest,
	geocoder ports.Geocoder,
	repo ports.HistoryRepository,
	opts ResolveOptions,
) (*domain.HistoryEntry, error) {
	result, err := CalculateRoute(ctx, req, geocoder, opts)
	if err != nil {
		return nil, err
	}

	entry, err := repo.Append(ctx, *result, time.Now())
	if err != nil {
		return nil, fmt.Errorf("calculate and record: append history: %w", err)
	}

	return entry, nil
}

func validateRouteRequest(req CalculateRouteRequest) error {
	var verr domain.ValidationError

	if strings.TrimSpace(req.Origin) == "" {
		verr.Add("origin", "must not be empty")
	}
	if len(req.Destinations) == 0 {
		verr.Add("destinations", "at least one destination is required")
	}
	for i, d := range req.Destinations {
		field := fmt.Sprintf("destinations[%d]", i)
		if strings.TrimSpace(d.City) == "" {
			verr.Add(field+".city", "must not be empty")
		}
		if d.Packages < 0 {
			verr.Add(field+".packages", "must not be negative")
		}
		if d.ValuePerPackage < 0 {
			verr.Add(field+".value_per_package", "must not be negative")
		}
	}
	if req.RouteCost < 0 {
		verr.Add("route_cost", "must not be negative")
	}

	return verr.Err()
}

// resolveCities geocodes cities and returns coordinates in input order.
func resolveCities(
	ctx context.Context,
	geocoder ports.Geocoder,
	cities []string,
	opts ResolveOptions,
) ([]domain.Coordinates, error) {
	coords := make([]domain.Coordinates, len(cities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, city := range cities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			lookupCtx, cancel := context.WithTimeout(gctx, opts.LookupTimeout)
			defer cancel()

			c, err := geocoder.Resolve(lookupCtx, city)
			if err != nil {
				return &domain.ResolutionError{City: city, Err: err}
			}
			coords[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// The caller gave up; report that instead of blaming a city.
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, domain.ErrLocationNotFound) {
			return nil, fmt.Errorf("calculate route: %w", ctxErr)
		}
		return nil, err
	}

	return coords, nil
}
