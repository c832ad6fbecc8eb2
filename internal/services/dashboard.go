package services

import (
	"cmp"
	"route-profit-service/internal/domain"
	"slices"
)

const rankingSize = 5

type RouteTypeSummary struct {
	RouteType       string
	Count           int
	TotalRevenue    float64
	TotalProfit     float64
	TotalCost       float64
	AverageMargin   float64
	AverageDistance float64

	totalDistance int
}

// DriverRouteRanking aggregates every run of one route by one driver.
type DriverRouteRanking struct {
	Driver        string
	RouteName     string
	TotalPackages int
	TotalRevenue  float64
	TotalProfit   float64
	ProfitMargin  float64
}

type Dashboard struct {
	TotalRoutes             int
	TotalRevenue            float64
	TotalProfit             float64
	AverageMargin           float64
	TotalPackages           int
	AverageProfitPerPackage float64
	RouteTypes              []RouteTypeSummary
	LosingRouteTypes        []RouteTypeSummary
	TopByVolume             []DriverRouteRanking
	TopByProfit             []DriverRouteRanking
}

// Summarize aggregates the route history into dashboard statistics.
func Summarize(entries []*domain.HistoryEntry) Dashboard {
	var d Dashboard

	types := make(map[string]*RouteTypeSummary)
	rankings := make(map[[2]string]*DriverRouteRanking)

	for _, e := range entries {
		d.TotalRoutes++
		d.TotalRevenue += e.TotalRevenue
		d.TotalProfit += e.Profit
		d.TotalPackages += e.TotalPackages

		name := e.RouteName()

		rt, ok := types[name]
		if !ok {
			rt = &RouteTypeSummary{RouteType: name}
			types[name] = rt
		}
		rt.Count++
		rt.TotalRevenue += e.TotalRevenue
		rt.TotalProfit += e.Profit
		rt.TotalCost += e.RouteCost
		rt.totalDistance += e.TotalDistance

		key := [2]string{e.Driver, name}
		rk, ok := rankings[key]
		if !ok {
			rk = &DriverRouteRanking{Driver: e.Driver, RouteName: name}
			rankings[key] = rk
		}
		rk.TotalPackages += e.TotalPackages
		rk.TotalRevenue += e.TotalRevenue
		rk.TotalProfit += e.Profit
	}

	d.AverageMargin = safeDiv(d.TotalProfit, d.TotalRevenue) * 100
	d.AverageProfitPerPackage = safeDiv(d.TotalProfit, float64(d.TotalPackages))

	d.RouteTypes = make([]RouteTypeSummary, 0, len(types))
	for _, rt := range types {
		rt.AverageMargin = safeDiv(rt.TotalProfit, rt.TotalRevenue) * 100
		rt.AverageDistance = safeDiv(float64(rt.totalDistance), float64(rt.Count))
		d.RouteTypes = append(d.RouteTypes, *rt)
	}
	slices.SortFunc(d.RouteTypes, func(a, b RouteTypeSummary) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.RouteType, b.RouteType)
	})

	d.LosingRouteTypes = []RouteTypeSummary{}
	for _, rt := range d.RouteTypes {
		if rt.TotalProfit < 0 {
			d.LosingRouteTypes = append(d.LosingRouteTypes, rt)
		}
	}

	all := make([]DriverRouteRanking, 0, len(rankings))
	for _, rk := range rankings {
		rk.ProfitMargin = safeDiv(rk.TotalProfit, rk.TotalRevenue) * 100
		all = append(all, *rk)
	}

	d.TopByVolume = topRankings(all, func(a, b DriverRouteRanking) int {
		return cmp.Compare(b.TotalPackages, a.TotalPackages)
	})
	d.TopByProfit = topRankings(all, func(a, b DriverRouteRanking) int {
		return cmp.Compare(b.TotalProfit, a.TotalProfit)
	})

	return d
}

func topRankings(all []DriverRouteRanking, by func(a, b DriverRouteRanking) int) []DriverRouteRanking {
	sorted := slices.Clone(all)
	slices.SortFunc(sorted, func(a, b DriverRouteRanking) int {
		if c := by(a, b); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Driver, b.Driver); c != 0 {
			return c
		}
		return cmp.Compare(a.RouteName, b.RouteName)
	})
	if len(sorted) > rankingSize {
		sorted = sorted[:rankingSize]
	}
	return sorted
}
