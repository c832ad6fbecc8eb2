package services

import (
	"route-profit-service/internal/domain"
	"strings"
)

// HistoryPageSize is the number of entries shown per history page.
const HistoryPageSize = 15

type HistoryPage struct {
	Items      []*domain.HistoryEntry
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
}

// FilterHistory keeps entries whose driver, origin or destination label
// contains term, ignoring case. An empty term keeps everything.
func FilterHistory(entries []*domain.HistoryEntry, term string) []*domain.HistoryEntry {
	needle := normalizeCity(term)
	if needle == "" {
		return entries
	}

	out := make([]*domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(normalizeCity(e.Driver), needle) ||
			strings.Contains(normalizeCity(e.Origin), needle) ||
			strings.Contains(normalizeCity(e.DestinationLabel()), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Paginate returns one page of entries. Out of range pages are clamped
// to the first or last page.
func Paginate(entries []*domain.HistoryEntry, page, perPage int) HistoryPage {
	if perPage <= 0 {
		perPage = HistoryPageSize
	}

	total := len(entries)
	totalPages := (total + perPage - 1) / perPage

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	return HistoryPage{
		Items:      entries[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
