package ports

import (
	"context"
	"route-profit-service/internal/domain"
	"time"
)

// Port: bounded, newest-first store of calculated routes.
type HistoryRepository interface {
	// Append stores a result created at the given time and trims the
	// collection to its configured limit.
	Append(ctx context.Context, result domain.RouteResult, at time.Time) (*domain.HistoryEntry, error)
	// List returns every stored entry, newest first.
	List(ctx context.Context) ([]*domain.HistoryEntry, error)
	Get(ctx context.Context, id int64) (*domain.HistoryEntry, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
	// Restore writes entries back with their original ids, replacing
	// existing ones, and trims to the limit.
	Restore(ctx context.Context, entries []*domain.HistoryEntry) error
}
