package repositories

import (
	"encoding/json"
	"fmt"
	"io"
	"route-profit-service/internal/domain"
	"time"
)

// historyRecord is the JSON shape of a history entry, used both for the
// payload column and for backup files.
type historyRecord struct {
	ID                int64               `json:"id"`
	Date              time.Time           `json:"date"`
	Driver            string              `json:"driver"`
	Origin            string              `json:"origin"`
	Destinations      []destinationRecord `json:"destinations"`
	TotalDistance     int                 `json:"totalDistance"`
	TotalTravelTime   float64             `json:"totalTravelTime"`
	TotalPackages     int                 `json:"totalPackages"`
	TotalRevenue      float64             `json:"totalRevenue"`
	RouteCost         float64             `json:"routeCost"`
	FuelCost          float64             `json:"fuelCost"`
	FuelAnalysis      fuelAnalysisRecord  `json:"fuelAnalysis"`
	TotalCost         float64             `json:"totalCost"`
	Profit            float64             `json:"profit"`
	ProfitMargin      float64             `json:"profitMargin"`
	DistanceBreakdown []segmentRecord     `json:"distanceBreakdown"`
}

type destinationRecord struct {
	ID              string  `json:"id"`
	City            string  `json:"city"`
	Packages        int     `json:"packages"`
	ValuePerPackage float64 `json:"valuePerPackage"`
}

type segmentRecord struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Distance int    `json:"distance"`
}

type fuelOptionRecord struct {
	FuelPrice float64 `json:"fuelPrice"`
	Liters    float64 `json:"consumption"`
	FuelCost  float64 `json:"fuelCost"`
	CostPerKm float64 `json:"costPerKm"`
}

type fuelAnalysisRecord struct {
	Region         string           `json:"region"`
	Diesel         fuelOptionRecord `json:"diesel"`
	Gasoline       fuelOptionRecord `json:"gasoline"`
	Recommendation string           `json:"recommendation"`
	Savings        float64          `json:"savings"`
}

func toRecord(e *domain.HistoryEntry) historyRecord {
	r := e.RouteResult

	dests := make([]destinationRecord, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		dests = append(dests, destinationRecord(d))
	}
	segs := make([]segmentRecord, 0, len(r.DistanceBreakdown))
	for _, s := range r.DistanceBreakdown {
		segs = append(segs, segmentRecord(s))
	}

	return historyRecord{
		ID:                e.ID,
		Date:              e.Date.UTC(),
		Driver:            r.Driver,
		Origin:            r.Origin,
		Destinations:      dests,
		TotalDistance:     r.TotalDistance,
		TotalTravelTime:   r.TotalTravelTime,
		TotalPackages:     r.TotalPackages,
		TotalRevenue:      r.TotalRevenue,
		RouteCost:         r.RouteCost,
		FuelCost:          r.FuelCost,
		FuelAnalysis: fuelAnalysisRecord{
			Region:         r.FuelAnalysis.Region,
			Diesel:         fuelOptionRecord(r.FuelAnalysis.Diesel),
			Gasoline:       fuelOptionRecord(r.FuelAnalysis.Gasoline),
			Recommendation: string(r.FuelAnalysis.Recommendation),
			Savings:        r.FuelAnalysis.Savings,
		},
		TotalCost:         r.TotalCost,
		Profit:            r.Profit,
		ProfitMargin:      r.ProfitMargin,
		DistanceBreakdown: segs,
	}
}

func (rec historyRecord) toEntry() *domain.HistoryEntry {
	dests := make([]domain.Destination, 0, len(rec.Destinations))
	for _, d := range rec.Destinations {
		dests = append(dests, domain.Destination(d))
	}
	segs := make([]domain.Segment, 0, len(rec.DistanceBreakdown))
	for _, s := range rec.DistanceBreakdown {
		segs = append(segs, domain.Segment(s))
	}

	return &domain.HistoryEntry{
		ID:   rec.ID,
		Date: rec.Date,
		RouteResult: domain.RouteResult{
			Driver:          rec.Driver,
			Origin:          rec.Origin,
			Destinations:    dests,
			TotalDistance:   rec.TotalDistance,
			TotalTravelTime: rec.TotalTravelTime,
			TotalPackages:   rec.TotalPackages,
			TotalRevenue:    rec.TotalRevenue,
			RouteCost:       rec.RouteCost,
			FuelCost:        rec.FuelCost,
			FuelAnalysis: domain.FuelAnalysis{
				Region:         rec.FuelAnalysis.Region,
				Diesel:         domain.FuelOption(rec.FuelAnalysis.Diesel),
				Gasoline:       domain.FuelOption(rec.FuelAnalysis.Gasoline),
				Recommendation: domain.FuelType(rec.FuelAnalysis.Recommendation),
				Savings:        rec.FuelAnalysis.Savings,
			},
			TotalCost:         rec.TotalCost,
			Profit:            rec.Profit,
			ProfitMargin:      rec.ProfitMargin,
			DistanceBreakdown: segs,
		},
	}
}

func encodePayload(e *domain.HistoryEntry) (string, error) {
	b, err := json.Marshal(toRecord(e))
	if err != nil {
		return "", fmt.Errorf("encode history payload: %w", err)
	}
	return string(b), nil
}

// decodePayload restores an entry; id and date come from their own columns.
func decodePayload(id int64, date time.Time, payload []byte) (*domain.HistoryEntry, error) {
	var rec historyRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode history payload id=%d: %w", id, err)
	}
	rec.ID = id
	rec.Date = date
	return rec.toEntry(), nil
}

// WriteHistoryJSON writes entries as an indented JSON backup.
func WriteHistoryJSON(w io.Writer, entries []*domain.HistoryEntry) error {
	recs := make([]historyRecord, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, toRecord(e))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("write history json: %w", err)
	}
	return nil
}

// ReadHistoryJSON parses a backup produced by WriteHistoryJSON.
func ReadHistoryJSON(r io.Reader) ([]*domain.HistoryEntry, error) {
	var recs []historyRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("read history json: %w", err)
	}

	entries := make([]*domain.HistoryEntry, 0, len(recs))
	for i, rec := range recs {
		if rec.ID <= 0 {
			if rec.Date.IsZero() {
				return nil, fmt.Errorf("read history json: entry at index %d has neither id nor date", i)
			}
			rec.ID = rec.Date.UnixMilli()
		}
		if rec.Date.IsZero() {
			rec.Date = time.UnixMilli(rec.ID).UTC()
		}
		entries = append(entries, rec.toEntry())
	}
	return entries, nil
}
