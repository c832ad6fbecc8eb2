package services

import (
	"errors"
	"fmt"
	"route-profit-service/internal/domain"
	"testing"
	"time"
)

func entry(id int64, driver, origin string, cities []string, packages int, revenue, cost float64, km int) *domain.HistoryEntry {
	dests := make([]domain.Destination, 0, len(cities))
	for _, c := range cities {
		dests = append(dests, domain.Destination{City: c})
	}
	profit := revenue - cost
	return &domain.HistoryEntry{
		ID:   id,
		Date: time.UnixMilli(id),
		RouteResult: domain.RouteResult{
			Driver:          driver,
			Origin:          origin,
			Destinations:    dests,
			TotalDistance:   km,
			TotalTravelTime: float64(km) / 60,
			TotalPackages:   packages,
			TotalRevenue:    revenue,
			RouteCost:       cost,
			TotalCost:       cost,
			Profit:          profit,
			ProfitMargin:    safeDiv(profit, revenue) * 100,
		},
	}
}

func TestFilterHistory(t *testing.T) {
	entries := []*domain.HistoryEntry{
		entry(3, "Ana", "Campinas", []string{"Santos"}, 10, 100, 50, 100),
		entry(2, "Bruno", "São Paulo", []string{"Curitiba", "Joinville"}, 10, 100, 50, 100),
		entry(1, "Carla", "Recife", []string{"Olinda"}, 10, 100, 50, 100),
	}

	tests := []struct {
		term string
		want []int64
	}{
		{"", []int64{3, 2, 1}},
		{"ana", []int64{3}},
		{"SÃO", []int64{2}},
		{"joinville", []int64{2}},
		{"curitiba → joinville", []int64{2}},
		{"xyz", []int64{}},
	}

	for _, tt := range tests {
		got := FilterHistory(entries, tt.term)
		if len(got) != len(tt.want) {
			t.Fatalf("term %q: got %d entries, want %d", tt.term, len(got), len(tt.want))
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Fatalf("term %q: entry %d id got %d, want %d", tt.term, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestPaginate(t *testing.T) {
	entries := make([]*domain.HistoryEntry, 0, 32)
	for i := 0; i < 32; i++ {
		entries = append(entries, entry(int64(100-i), "D", "O", []string{"X"}, 1, 1, 0, 1))
	}

	p := Paginate(entries, 1, 0)
	if p.TotalPages != 3 || len(p.Items) != HistoryPageSize || p.Items[0].ID != 100 {
		t.Fatalf("page 1: got pages=%d items=%d", p.TotalPages, len(p.Items))
	}

	p = Paginate(entries, 3, HistoryPageSize)
	if len(p.Items) != 2 || p.Items[1].ID != 69 {
		t.Fatalf("page 3: got %d items", len(p.Items))
	}

	p = Paginate(entries, 99, HistoryPageSize)
	if p.Page != 3 {
		t.Fatalf("clamped page: got %d, want 3", p.Page)
	}

	p = Paginate(entries, -1, HistoryPageSize)
	if p.Page != 1 {
		t.Fatalf("clamped page: got %d, want 1", p.Page)
	}

	p = Paginate(nil, 2, HistoryPageSize)
	if p.Page != 1 || p.TotalPages != 0 || len(p.Items) != 0 {
		t.Fatalf("empty: got %+v", p)
	}
}

func TestSummarize(t *testing.T) {
	entries := []*domain.HistoryEntry{
		entry(5, "Ana", "Campinas", []string{"Santos"}, 20, 500, 200, 150),
		entry(4, "Ana", "Campinas", []string{"Santos"}, 10, 300, 100, 150),
		entry(3, "Bruno", "Campinas", []string{"Santos"}, 5, 100, 50, 150),
		entry(2, "Bruno", "Recife", []string{"Olinda", "Caruaru"}, 40, 200, 400, 140),
		entry(1, "Carla", "Natal", nil, 0, 0, 0, 0),
	}

	d := Summarize(entries)

	if d.TotalRoutes != 5 {
		t.Fatalf("routes: got %d, want 5", d.TotalRoutes)
	}
	if d.TotalRevenue != 1100 || d.TotalProfit != 350 {
		t.Fatalf("totals: got revenue=%v profit=%v", d.TotalRevenue, d.TotalProfit)
	}
	if !almostEqual(d.AverageMargin, 350.0/1100*100) {
		t.Fatalf("average margin: got %v", d.AverageMargin)
	}
	if d.TotalPackages != 75 || !almostEqual(d.AverageProfitPerPackage, 350.0/75) {
		t.Fatalf("packages: got %d / %v", d.TotalPackages, d.AverageProfitPerPackage)
	}

	if len(d.RouteTypes) != 3 {
		t.Fatalf("route types: got %d, want 3", len(d.RouteTypes))
	}
	if d.RouteTypes[0].RouteType != "Campinas → Santos" || d.RouteTypes[0].Count != 3 {
		t.Fatalf("top route type: got %+v", d.RouteTypes[0])
	}
	if d.RouteTypes[0].AverageDistance != 150 {
		t.Fatalf("average distance: got %v", d.RouteTypes[0].AverageDistance)
	}
	// Equal counts are ordered by name.
	if d.RouteTypes[1].RouteType != "Natal → N/A" || d.RouteTypes[2].RouteType != "Recife → Olinda → Caruaru" {
		t.Fatalf("route type order: got %q, %q", d.RouteTypes[1].RouteType, d.RouteTypes[2].RouteType)
	}

	if len(d.LosingRouteTypes) != 1 || d.LosingRouteTypes[0].TotalProfit != -200 {
		t.Fatalf("losing route types: got %+v", d.LosingRouteTypes)
	}

	if d.TopByVolume[0].Driver != "Bruno" || d.TopByVolume[0].TotalPackages != 40 {
		t.Fatalf("top by volume: got %+v", d.TopByVolume[0])
	}
	if d.TopByProfit[0].Driver != "Ana" || d.TopByProfit[0].TotalProfit != 500 {
		t.Fatalf("top by profit: got %+v", d.TopByProfit[0])
	}
	if !almostEqual(d.TopByProfit[0].ProfitMargin, 500.0/800*100) {
		t.Fatalf("ranking margin: got %v", d.TopByProfit[0].ProfitMargin)
	}
}

func TestSummarizeRankingsAreCappedAtFive(t *testing.T) {
	var entries []*domain.HistoryEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, entry(int64(i+1), fmt.Sprintf("driver-%d", i), "A", []string{"B"}, i, float64(i*10), 0, 10))
	}

	d := Summarize(entries)
	if len(d.TopByVolume) != 5 || len(d.TopByProfit) != 5 {
		t.Fatalf("rankings: got %d / %d, want 5 / 5", len(d.TopByVolume), len(d.TopByProfit))
	}
	if d.TopByVolume[0].Driver != "driver-7" {
		t.Fatalf("top by volume: got %q, want driver-7", d.TopByVolume[0].Driver)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	d := Summarize(nil)
	if d.TotalRoutes != 0 || d.AverageMargin != 0 || d.AverageProfitPerPackage != 0 {
		t.Fatalf("got %+v", d)
	}
}

func TestCompare(t *testing.T) {
	good := entry(2, "Ana", "Campinas", []string{"Santos"}, 40, 1200, 200, 100)
	bad := entry(1, "Bruno", "Campinas", []string{"Sorocaba"}, 20, 300, 250, 100)

	c, err := Compare([]*domain.HistoryEntry{good, bad})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.Routes) != 2 {
		t.Fatalf("routes: got %d, want 2", len(c.Routes))
	}
	if c.Best.Profit != 2 || c.Best.Revenue != 2 || c.Best.Efficiency != 2 {
		t.Fatalf("best performers: got %+v", c.Best)
	}

	// pricing: (30-15)*20=300, cost: (2.5-2)*100=50,
	// efficiency: (12-3)*100=900, volume: 20*15=300
	wantOrder := []SuggestionType{SuggestionEfficiency, SuggestionPricing, SuggestionVolume, SuggestionCost}
	if len(c.Suggestions) != len(wantOrder) {
		t.Fatalf("suggestions: got %d, want %d", len(c.Suggestions), len(wantOrder))
	}
	for i, s := range c.Suggestions {
		if s.Type != wantOrder[i] {
			t.Fatalf("suggestion %d: got %q, want %q", i, s.Type, wantOrder[i])
		}
	}
	if !almostEqual(c.Suggestions[0].PotentialGain, 900) {
		t.Fatalf("efficiency gain: got %v, want 900", c.Suggestions[0].PotentialGain)
	}
}

func TestCompareSingleRouteHasNoSuggestions(t *testing.T) {
	c, err := Compare([]*domain.HistoryEntry{entry(1, "Ana", "A", []string{"B"}, 1, 10, 5, 0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(c.Suggestions))
	}
	if c.Routes[0].Efficiency != 0 || c.Routes[0].CostPerKm != 0 {
		t.Fatalf("zero distance ratios should be 0, got %+v", c.Routes[0])
	}
}

func TestCompareRejectsEmptyAndOversizedSelections(t *testing.T) {
	var verr *domain.ValidationError

	if _, err := Compare(nil); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	six := make([]*domain.HistoryEntry, 6)
	for i := range six {
		six[i] = entry(int64(i+1), "D", "A", []string{"B"}, 1, 1, 0, 1)
	}
	if _, err := Compare(six); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
