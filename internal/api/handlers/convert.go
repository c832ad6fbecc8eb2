package handlers

import (
	"route-profit-service/internal/api/dto"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/services"
	"time"
)

func toDestinations(in []domain.Destination) []dto.DestinationResponse {
	out := make([]dto.DestinationResponse, 0, len(in))
	for _, d := range in {
		out = append(out, dto.DestinationResponse{
			ID:              d.ID,
			City:            d.City,
			Packages:        d.Packages,
			ValuePerPackage: d.ValuePerPackage,
		})
	}
	return out
}

func toFuelOption(o domain.FuelOption) dto.FuelOptionResponse {
	return dto.FuelOptionResponse{
		FuelPrice:   o.FuelPrice,
		Consumption: o.Liters,
		FuelCost:    o.FuelCost,
		CostPerKm:   o.CostPerKm,
	}
}

func toRouteResult(r domain.RouteResult) dto.RouteResultResponse {
	segments := make([]dto.SegmentResponse, 0, len(r.DistanceBreakdown))
	for _, s := range r.DistanceBreakdown {
		segments = append(segments, dto.SegmentResponse{
			From:       s.From,
			To:         s.To,
			DistanceKm: s.Distance,
			TravelTime: services.FormatTravelTime(float64(s.Distance) / services.AverageSpeedKmh),
		})
	}

	m := services.Metrics(r)

	return dto.RouteResultResponse{
		Driver:           r.Driver,
		Origin:           r.Origin,
		Destinations:     toDestinations(r.Destinations),
		TotalDistanceKm:  r.TotalDistance,
		TotalTravelTimeH: r.TotalTravelTime,
		TotalPackages:    r.TotalPackages,
		TotalRevenue:     r.TotalRevenue,
		RouteCost:        r.RouteCost,
		FuelCost:         r.FuelCost,
		FuelAnalysis: dto.FuelAnalysisResponse{
			Region:         r.FuelAnalysis.Region,
			Diesel:         toFuelOption(r.FuelAnalysis.Diesel),
			Gasoline:       toFuelOption(r.FuelAnalysis.Gasoline),
			Recommendation: string(r.FuelAnalysis.Recommendation),
			Savings:        r.FuelAnalysis.Savings,
		},
		TotalCost:         r.TotalCost,
		Profit:            r.Profit,
		ProfitMargin:      r.ProfitMargin,
		DistanceBreakdown: segments,
		Metrics: dto.MetricsResponse{
			RevenuePerKm:         m.RevenuePerKm,
			OperationalCostPerKm: m.OperationalCostPerKm,
			TotalCostPerKm:       m.TotalCostPerKm,
			ProfitPerHour:        m.ProfitPerHour,
			RevenuePerHour:       m.RevenuePerHour,
			PackagesPerHour:      m.PackagesPerHour,
			RevenuePerPackage:    m.RevenuePerPackage,
			Efficiency:           m.Efficiency,
			ProfitWithFuel:       m.ProfitWithFuel,
			ProfitMarginWithFuel: m.ProfitMarginWithFuel,
			MarginClass:          string(m.MarginClass),
			MarginClassWithFuel:  string(m.MarginClassWithFuel),
			TravelTime:           m.FormattedTravelTime,
		},
	}
}

func toHistoryEntry(e *domain.HistoryEntry) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		ID:                  e.ID,
		Date:                e.Date.UTC().Format(time.RFC3339),
		RouteResultResponse: toRouteResult(e.RouteResult),
	}
}

func toHistoryEntries(entries []*domain.HistoryEntry) []dto.HistoryEntryResponse {
	out := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryEntry(e))
	}
	return out
}

func toRouteTypes(in []services.RouteTypeSummary) []dto.RouteTypeResponse {
	out := make([]dto.RouteTypeResponse, 0, len(in))
	for _, t := range in {
		out = append(out, dto.RouteTypeResponse{
			RouteType:       t.RouteType,
			Count:           t.Count,
			TotalRevenue:    t.TotalRevenue,
			TotalProfit:     t.TotalProfit,
			TotalCost:       t.TotalCost,
			AverageMargin:   t.AverageMargin,
			AverageDistance: t.AverageDistance,
		})
	}
	return out
}

func toRankings(in []services.DriverRouteRanking) []dto.RankingResponse {
	out := make([]dto.RankingResponse, 0, len(in))
	for _, r := range in {
		out = append(out, dto.RankingResponse{
			Driver:        r.Driver,
			RouteName:     r.RouteName,
			TotalPackages: r.TotalPackages,
			TotalRevenue:  r.TotalRevenue,
			TotalProfit:   r.TotalProfit,
			ProfitMargin:  r.ProfitMargin,
		})
	}
	return out
}

func toComparison(c *services.Comparison) dto.ComparisonResponse {
	res := dto.ComparisonResponse{
		Routes:      make([]dto.ComparedRouteResponse, 0, len(c.Routes)),
		Suggestions: make([]dto.SuggestionResponse, 0, len(c.Suggestions)),
		Best: dto.BestPerformersResponse{
			Profit:        c.Best.Profit,
			Margin:        c.Best.Margin,
			Revenue:       c.Best.Revenue,
			Efficiency:    c.Best.Efficiency,
			ProfitPerHour: c.Best.ProfitPerHour,
		},
	}

	for _, r := range c.Routes {
		res.Routes = append(res.Routes, dto.ComparedRouteResponse{
			ID:                r.ID,
			Name:              r.Name,
			Driver:            r.Driver,
			Profit:            r.Profit,
			Margin:            r.Margin,
			Revenue:           r.Revenue,
			DistanceKm:        r.Distance,
			Efficiency:        r.Efficiency,
			ProfitPerHour:     r.ProfitPerHour,
			Cost:              r.Cost,
			Packages:          r.Packages,
			ValuePerPackage:   r.ValuePerPackage,
			CostPerKm:         r.CostPerKm,
			RevenuePerPackage: r.RevenuePerPackage,
		})
	}
	for _, s := range c.Suggestions {
		res.Suggestions = append(res.Suggestions, dto.SuggestionResponse{
			Type:          string(s.Type),
			Title:         s.Title,
			Description:   s.Description,
			Impact:        s.Impact,
			Difficulty:    string(s.Difficulty),
			PotentialGain: s.PotentialGain,
		})
	}
	return res
}
