package domain

import (
	"context"
	"time"
)

// EventSource fetches candidate events from an upstream provider.
//
// Implementations absorb transport and parse failures and return an empty
// slice. The error is reserved for invalid input and caller cancellation.
type EventSource interface {
	FindByLocation(ctx context.Context, origin Location, radiusKm float64) ([]Event, error)
	FindByCategory(ctx context.Context, origin Location, radiusKm float64, category Category) ([]Event, error)
	FindByKeyword(ctx context.Context, keyword string, origin Location, radiusKm float64) ([]Event, error)
	FindByID(ctx context.Context, id string) ([]Event, error)
	FindByDate(ctx context.Context, date time.Time, origin Location, radiusKm float64) ([]Event, error)
}

// Geocoder resolves free-text addresses to locations.
type Geocoder interface {
	// Geocode returns false when the address is blank, unknown, or the
	// provider could not be reached.
	Geocode(ctx context.Context, address string) (Location, bool)
}
