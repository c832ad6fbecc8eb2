package handlers

import (
	"fmt"
	"net/http"
	"route-profit-service/internal/api/dto"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/ports"
	"route-profit-service/internal/services"
)

// AnalyticsHandler serves aggregates computed over the route history.
type AnalyticsHandler struct {
	Repo ports.HistoryRepository
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "dashboard", err)
		return
	}

	d := services.Summarize(entries)
	writeJSON(w, r, http.StatusOK, dto.DashboardResponse{
		TotalRoutes:             d.TotalRoutes,
		TotalRevenue:            d.TotalRevenue,
		TotalProfit:             d.TotalProfit,
		AverageMargin:           d.AverageMargin,
		TotalPackages:           d.TotalPackages,
		AverageProfitPerPackage: d.AverageProfitPerPackage,
		RouteTypes:              toRouteTypes(d.RouteTypes),
		LosingRouteTypes:        toRouteTypes(d.LosingRouteTypes),
		TopByVolume:             toRankings(d.TopByVolume),
		TopByProfit:             toRankings(d.TopByProfit),
	})
}

// Compare compares up to services.MaxComparedRoutes history entries by id.
func (h *AnalyticsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req dto.CompareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.IDs) > services.MaxComparedRoutes {
		verr := &domain.ValidationError{}
		verr.Add("ids", fmt.Sprintf("at most %d routes can be compared", services.MaxComparedRoutes))
		writeServiceError(w, r, "compare routes", verr)
		return
	}

	entries := make([]*domain.HistoryEntry, 0, len(req.IDs))
	for _, id := range req.IDs {
		e, err := h.Repo.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "compare routes", err)
			return
		}
		entries = append(entries, e)
	}

	c, err := services.Compare(entries)
	if err != nil {
		writeServiceError(w, r, "compare routes", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toComparison(c))
}
