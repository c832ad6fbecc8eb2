package ports

import (
	"context"
	"route-profit-service/internal/domain"
)

// Contract for turning a free-text city name into coordinates.
type Geocoder interface {
	// Resolve returns domain.ErrLocationNotFound when the lookup has no result.
	Resolve(ctx context.Context, city string) (domain.Coordinates, error)
}

// Persistent address -> coordinates cache consulted before a Geocoder.
// Keys are expected to be normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
