package api

import (
	"net/http"
	"route-profit-service/internal/api/handlers"
	"route-profit-service/internal/ports"
	"route-profit-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(history ports.HistoryRepository, geocoder ports.Geocoder, opts services.ResolveOptions) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Geocoder: geocoder,
		History:  history,
		Options:  opts,
	}
	historyHandler := &handlers.HistoryHandler{Repo: history}
	analyticsHandler := &handlers.AnalyticsHandler{Repo: history}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /routes/calculate", routeHandler.Calculate)
	mux.HandleFunc("POST /routes/import", routeHandler.Import)
	mux.HandleFunc("GET /routes/template", routeHandler.Template)

	mux.HandleFunc("GET /history", historyHandler.List)
	mux.HandleFunc("DELETE /history", historyHandler.Clear)
	mux.HandleFunc("GET /history/{id}", historyHandler.Get)
	mux.HandleFunc("DELETE /history/{id}", historyHandler.Delete)
	mux.HandleFunc("GET /history/{id}/report.pdf", historyHandler.Report)

	mux.HandleFunc("GET /exports/history.xlsx", historyHandler.ExportSpreadsheet)
	mux.HandleFunc("GET /reports/history.pdf", historyHandler.ExportReport)

	mux.HandleFunc("GET /dashboard", analyticsHandler.Dashboard)
	mux.HandleFunc("POST /comparisons", analyticsHandler.Compare)

	return requestIDMiddleware(loggingMiddleware(gzipMiddleware(mux)))
}
