package domain

import (
	"strings"
	"time"
)

// HistoryLimit is the number of entries kept in the route history.
const HistoryLimit = 500

// Represents one delivery stop of a route with its own package count and price.
type Destination struct {
	ID              string
	City            string
	Packages        int
	ValuePerPackage float64
}

// One leg of a route: origin -> first destination or destination i -> i+1.
type Segment struct {
	From     string
	To       string
	Distance int
}

// Fuel type recommended by the fuel analysis.
type FuelType string

const (
	FuelDiesel   FuelType = "diesel"
	FuelGasoline FuelType = "gasoline"
)

// Cost projection for a single fuel type over the whole route.
type FuelOption struct {
	FuelPrice float64
	Liters    float64
	FuelCost  float64
	CostPerKm float64
}

// Side-by-side diesel/gasoline projection for the region of the route origin.
type FuelAnalysis struct {
	Region         string
	Diesel         FuelOption
	Gasoline       FuelOption
	Recommendation FuelType
	Savings        float64
}

// Option returns the projection for the given fuel type.
func (f FuelAnalysis) Option(t FuelType) FuelOption {
	if t == FuelGasoline {
		return f.Gasoline
	}
	return f.Diesel
}

// RouteResult is the reconciled financial outcome of a route calculation.
//
// TotalCost only carries the operational cost entered by the user. Fuel is
// reported through FuelCost and FuelAnalysis and never reduces Profit.
type RouteResult struct {
	Driver            string
	Origin            string
	Destinations      []Destination
	TotalDistance     int
	TotalTravelTime   float64
	TotalPackages     int
	TotalRevenue      float64
	RouteCost         float64
	FuelCost          float64
	FuelAnalysis      FuelAnalysis
	TotalCost         float64
	Profit            float64
	ProfitMargin      float64
	DistanceBreakdown []Segment
}

// DestinationLabel joins destination cities in route order ("A → B").
func (r RouteResult) DestinationLabel() string {
	cities := make([]string, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		cities = append(cities, d.City)
	}
	return strings.Join(cities, " → ")
}

// RouteName is the "origin → d1 → d2" key used to group routes of the same shape.
func (r RouteResult) RouteName() string {
	label := r.DestinationLabel()
	if label == "" {
		label = "N/A"
	}
	return r.Origin + " → " + label
}

// A persisted route calculation.
// ID is the creation timestamp in milliseconds, bumped when needed to stay unique.
type HistoryEntry struct {
	RouteResult
	ID   int64
	Date time.Time
}

// Route request produced by spreadsheet import and consumed by the calculator.
type ProcessedRoute struct {
	Driver       string
	Origin       string
	Destinations []Destination
	RouteCost    float64
}
