package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"route-profit-service/internal/adapters/report"
	"route-profit-service/internal/adapters/spreadsheet"
	"route-profit-service/internal/api/dto"
	"route-profit-service/internal/ports"
	"route-profit-service/internal/services"
	"strconv"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// HistoryHandler exposes the stored route calculations and their exports.
type HistoryHandler struct {
	Repo ports.HistoryRepository
}

// List returns one page of history, optionally filtered by ?q=.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = n
	}

	entries, err := h.Repo.List(r.Context())
	if err != nil {
		log.Printf("list history failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	filtered := services.FilterHistory(entries, r.URL.Query().Get("q"))
	p := services.Paginate(filtered, page, services.HistoryPageSize)

	writeJSON(w, r, http.StatusOK, dto.ListHistoryResponse{
		Items:      toHistoryEntries(p.Items),
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	})
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get history entry", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toHistoryEntry(entry))
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete history entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Clear(r.Context()); err != nil {
		writeServiceError(w, r, "clear history", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Report serves the PDF report of one history entry.
func (h *HistoryHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "route report", err)
		return
	}

	writeFile(w, r, "render route report", pdfContentType, fmt.Sprintf("rota-%d.pdf", id), func(out io.Writer) error {
		return report.RenderRouteReport(out, entry)
	})
}

// ExportSpreadsheet serves the whole history as an .xlsx workbook.
func (h *HistoryHandler) ExportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "export history", err)
		return
	}

	writeFile(w, r, "export history", xlsxContentType, "historico-rotas.xlsx", func(out io.Writer) error {
		return spreadsheet.ExportHistory(out, entries)
	})
}

// ExportReport serves the whole history as a PDF table.
func (h *HistoryHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "history report", err)
		return
	}

	writeFile(w, r, "render history report", pdfContentType, "historico-rotas.pdf", func(out io.Writer) error {
		return report.RenderHistoryReport(out, entries)
	})
}
