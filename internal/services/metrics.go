package services

import (
	"fmt"
	"math"
	"route-profit-service/internal/domain"
)

// RouteMetrics are per-unit figures derived from a RouteResult.
// Every ratio with a zero denominator is reported as 0.
type RouteMetrics struct {
	RevenuePerKm         float64
	OperationalCostPerKm float64
	TotalCostPerKm       float64
	ProfitPerHour        float64
	RevenuePerHour       float64
	PackagesPerHour      float64
	RevenuePerPackage    float64
	Efficiency           float64
	ProfitWithFuel       float64
	ProfitMarginWithFuel float64
	MarginClass          MarginClass
	MarginClassWithFuel  MarginClass
	FormattedTravelTime  string
}

type MarginClass string

const (
	MarginExcellent MarginClass = "excellent"
	MarginGood      MarginClass = "good"
	MarginFair      MarginClass = "fair"
	MarginLow       MarginClass = "low"
)

func ClassifyMargin(margin float64) MarginClass {
	switch {
	case margin >= 30:
		return MarginExcellent
	case margin >= 20:
		return MarginGood
	case margin >= 10:
		return MarginFair
	default:
		return MarginLow
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func Metrics(r domain.RouteResult) RouteMetrics {
	distance := float64(r.TotalDistance)
	hours := r.TotalTravelTime

	profitWithFuel := r.TotalRevenue - r.RouteCost - r.FuelCost
	marginWithFuel := safeDiv(profitWithFuel, r.TotalRevenue) * 100

	return RouteMetrics{
		RevenuePerKm:         safeDiv(r.TotalRevenue, distance),
		OperationalCostPerKm: safeDiv(r.RouteCost, distance),
		TotalCostPerKm:       safeDiv(r.RouteCost+r.FuelCost, distance),
		ProfitPerHour:        safeDiv(r.Profit, hours),
		RevenuePerHour:       safeDiv(r.TotalRevenue, hours),
		PackagesPerHour:      safeDiv(float64(r.TotalPackages), hours),
		RevenuePerPackage:    safeDiv(r.TotalRevenue, float64(r.TotalPackages)),
		Efficiency:           safeDiv(r.TotalRevenue, r.RouteCost),
		ProfitWithFuel:       profitWithFuel,
		ProfitMarginWithFuel: marginWithFuel,
		MarginClass:          ClassifyMargin(r.ProfitMargin),
		MarginClassWithFuel:  ClassifyMargin(marginWithFuel),
		FormattedTravelTime:  FormatTravelTime(hours),
	}
}

// FormatTravelTime renders hours as "45min", "3h" or "2h 30min".
func FormatTravelTime(hours float64) string {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return "0min"
	}

	total := int(math.Round(hours * 60))
	h, m := total/60, total%60

	switch {
	case h == 0:
		return fmt.Sprintf("%dmin", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dmin", h, m)
	}
}
