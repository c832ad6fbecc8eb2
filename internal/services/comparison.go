package services

import (
	"cmp"
	"fmt"
	"route-profit-service/internal/domain"
	"slices"
)

// MaxComparedRoutes is the most routes Compare accepts at once.
const MaxComparedRoutes = 5

const maxSuggestions = 4

type ComparedRoute struct {
	ID                int64
	Name              string
	Driver            string
	Profit            float64
	Margin            float64
	Revenue           float64
	Distance          int
	Efficiency        float64
	ProfitPerHour     float64
	Cost              float64
	Packages          int
	ValuePerPackage   float64
	CostPerKm         float64
	RevenuePerPackage float64
}

// BestPerformers holds, per metric, the id of the route with the highest value.
type BestPerformers struct {
	Profit        int64
	Margin        int64
	Revenue       int64
	Efficiency    int64
	ProfitPerHour int64
}

type SuggestionType string

const (
	SuggestionPricing    SuggestionType = "pricing"
	SuggestionCost       SuggestionType = "cost"
	SuggestionEfficiency SuggestionType = "efficiency"
	SuggestionVolume     SuggestionType = "volume"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Suggestion struct {
	Type          SuggestionType
	Title         string
	Description   string
	Impact        string
	Difficulty    Difficulty
	PotentialGain float64
}

type Comparison struct {
	Routes      []ComparedRoute
	Best        BestPerformers
	Suggestions []Suggestion
}

// Compare computes side by side metrics for up to MaxComparedRoutes
// history entries and suggests how the least profitable route could
// catch up with the most profitable one.
func Compare(entries []*domain.HistoryEntry) (*Comparison, error) {
	var verr domain.ValidationError
	if len(entries) == 0 {
		verr.Add("ids", "select at least one route")
	}
	if len(entries) > MaxComparedRoutes {
		verr.Add("ids", fmt.Sprintf("at most %d routes can be compared", MaxComparedRoutes))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	routes := make([]ComparedRoute, 0, len(entries))
	for _, e := range entries {
		routes = append(routes, compareRoute(e))
	}

	return &Comparison{
		Routes:      routes,
		Best:        bestPerformers(routes),
		Suggestions: suggestImprovements(routes),
	}, nil
}

func compareRoute(e *domain.HistoryEntry) ComparedRoute {
	distance := float64(e.TotalDistance)
	packages := float64(e.TotalPackages)

	return ComparedRoute{
		ID:                e.ID,
		Name:              e.RouteName(),
		Driver:            e.Driver,
		Profit:            e.Profit,
		Margin:            e.ProfitMargin,
		Revenue:           e.TotalRevenue,
		Distance:          e.TotalDistance,
		Efficiency:        safeDiv(e.TotalRevenue, distance),
		ProfitPerHour:     safeDiv(e.Profit, e.TotalTravelTime),
		Cost:              e.RouteCost,
		Packages:          e.TotalPackages,
		ValuePerPackage:   safeDiv(e.TotalRevenue, packages),
		CostPerKm:         safeDiv(e.RouteCost, distance),
		RevenuePerPackage: safeDiv(e.TotalRevenue, packages),
	}
}

// best returns the index of the route with the highest metric; the first
// one wins ties.
func best(routes []ComparedRoute, metric func(ComparedRoute) float64) int {
	idx := 0
	for i := 1; i < len(routes); i++ {
		if metric(routes[i]) > metric(routes[idx]) {
			idx = i
		}
	}
	return idx
}

func bestPerformers(routes []ComparedRoute) BestPerformers {
	id := func(metric func(ComparedRoute) float64) int64 {
		return routes[best(routes, metric)].ID
	}

	return BestPerformers{
		Profit:        id(func(r ComparedRoute) float64 { return r.Profit }),
		Margin:        id(func(r ComparedRoute) float64 { return r.Margin }),
		Revenue:       id(func(r ComparedRoute) float64 { return r.Revenue }),
		Efficiency:    id(func(r ComparedRoute) float64 { return r.Efficiency }),
		ProfitPerHour: id(func(r ComparedRoute) float64 { return r.ProfitPerHour }),
	}
}

func suggestImprovements(routes []ComparedRoute) []Suggestion {
	suggestions := []Suggestion{}
	if len(routes) < 2 {
		return suggestions
	}

	bestIdx := best(routes, func(r ComparedRoute) float64 { return r.Profit })
	worstIdx := best(routes, func(r ComparedRoute) float64 { return -r.Profit })
	if bestIdx == worstIdx {
		return suggestions
	}
	top, low := routes[bestIdx], routes[worstIdx]

	if top.ValuePerPackage > low.ValuePerPackage {
		diff := top.ValuePerPackage - low.ValuePerPackage
		gain := diff * float64(low.Packages)
		suggestions = append(suggestions, Suggestion{
			Type:  SuggestionPricing,
			Title: "Adjust price per package",
			Description: fmt.Sprintf("Raise the value per package from R$ %.2f to R$ %.2f (difference of R$ %.2f)",
				low.ValuePerPackage, top.ValuePerPackage, diff),
			Impact:        fmt.Sprintf("Potential revenue increase of R$ %.2f", gain),
			Difficulty:    DifficultyEasy,
			PotentialGain: gain,
		})
	}

	if low.CostPerKm > top.CostPerKm {
		diff := low.CostPerKm - top.CostPerKm
		gain := diff * float64(low.Distance)
		suggestions = append(suggestions, Suggestion{
			Type:  SuggestionCost,
			Title: "Reduce operational costs",
			Description: fmt.Sprintf("Lower the cost per km from R$ %.2f to R$ %.2f (saving R$ %.2f/km)",
				low.CostPerKm, top.CostPerKm, diff),
			Impact:        fmt.Sprintf("Potential cost saving of R$ %.2f", gain),
			Difficulty:    DifficultyMedium,
			PotentialGain: gain,
		})
	}

	if top.Efficiency > low.Efficiency {
		diff := top.Efficiency - low.Efficiency
		gain := diff * float64(low.Distance)
		suggestions = append(suggestions, Suggestion{
			Type:  SuggestionEfficiency,
			Title: "Improve route efficiency",
			Description: fmt.Sprintf("Raise revenue per km from R$ %.2f to R$ %.2f",
				low.Efficiency, top.Efficiency),
			Impact:        fmt.Sprintf("Potential revenue increase of R$ %.2f", gain),
			Difficulty:    DifficultyMedium,
			PotentialGain: gain,
		})
	}

	if top.Packages > low.Packages {
		diff := top.Packages - low.Packages
		gain := float64(diff) * low.ValuePerPackage
		suggestions = append(suggestions, Suggestion{
			Type:  SuggestionVolume,
			Title: "Increase package volume",
			Description: fmt.Sprintf("Go from %d to %d packages (difference of %d packages)",
				low.Packages, top.Packages, diff),
			Impact:        fmt.Sprintf("Potential revenue increase of R$ %.2f", gain),
			Difficulty:    DifficultyHard,
			PotentialGain: gain,
		})
	}

	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		return cmp.Compare(b.PotentialGain, a.PotentialGain)
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
