package handlers

import (
	"errors"
	"log"
	"net/http"
	"route-profit-service/internal/adapters/spreadsheet"
	"route-profit-service/internal/api/dto"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/ports"
	"route-profit-service/internal/services"
	"strconv"
)

const maxUploadBytes = 10 << 20

// RouteHandler calculates routes and imports them from spreadsheets.
type RouteHandler struct {
	Geocoder ports.Geocoder
	History  ports.HistoryRepository
	Options  services.ResolveOptions
}

// Calculate runs the route engine and records the result in the history.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svcReq := services.CalculateRouteRequest{
		Driver:       req.Driver,
		Origin:       req.Origin,
		Destinations: make([]domain.Destination, 0, len(req.Destinations)),
		RouteCost:    req.RouteCost,
	}
	for _, d := range req.Destinations {
		svcReq.Destinations = append(svcReq.Destinations, domain.Destination{
			ID:              d.ID,
			City:            d.City,
			Packages:        d.Packages,
			ValuePerPackage: d.ValuePerPackage,
		})
	}

	entry, err := services.CalculateAndRecord(r.Context(), svcReq, h.Geocoder, h.History, h.Options)
	if err != nil {
		writeServiceError(w, r, "calculate route", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toHistoryEntry(entry))
}

// Import parses an uploaded .xlsx sheet. With ?calculate=true every valid
// row is also calculated and recorded, one after the other.
func (h *RouteHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	calculate := false
	if v := r.URL.Query().Get("calculate"); v != "" {
		calculate, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "calculate must be a boolean")
			return
		}
	}

	parsed, err := spreadsheet.ImportRoutes(file)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrEmptySheet) {
			writeError(w, r, http.StatusBadRequest, "spreadsheet is empty or has no valid data")
			return
		}
		log.Printf("import routes failed: %v", err)
		writeError(w, r, http.StatusBadRequest, "could not read spreadsheet")
		return
	}

	res := dto.ImportResponse{
		Routes: make([]dto.ImportedRouteResponse, 0, len(parsed.Routes)),
		Errors: make([]dto.RowErrorResponse, 0, len(parsed.Errors)),
	}
	for _, e := range parsed.Errors {
		res.Errors = append(res.Errors, dto.RowErrorResponse{Line: e.Line, Message: e.Message})
	}
	for _, p := range parsed.Routes {
		res.Routes = append(res.Routes, dto.ImportedRouteResponse{
			Driver:       p.Driver,
			Origin:       p.Origin,
			Destinations: toDestinations(p.Destinations),
			RouteCost:    p.RouteCost,
		})
	}

	if calculate {
		for i, p := range parsed.Routes {
			entry, err := services.CalculateAndRecord(r.Context(), services.RequestFromProcessed(p), h.Geocoder, h.History, h.Options)
			if err != nil {
				log.Printf("import calculate failed: row=%d driver=%q err=%v", i, p.Driver, err)
				res.Failures = append(res.Failures, dto.ImportFailure{Index: i, Driver: p.Driver, Error: err.Error()})
				if r.Context().Err() != nil {
					break
				}
				continue
			}
			res.Calculated = append(res.Calculated, toHistoryEntry(entry))
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Template serves the import template workbook.
func (h *RouteHandler) Template(w http.ResponseWriter, r *http.Request) {
	writeFile(w, r, "write template", xlsxContentType, "modelo-rotas.xlsx", spreadsheet.WriteTemplate)
}
