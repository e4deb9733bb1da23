package domain

import (
	"math"
	"time"
)

// MaxRadiusKm caps a search radius at roughly half the Earth's circumference.
const MaxRadiusKm = 20000.0

// Query describes one nearby-events search.
type Query struct {
	Origin   *Location
	RadiusKm float64
	// Category restricts results when set; empty matches every category.
	Category Category

	// Optional fetch hints. Date narrows the upstream search to one UTC day,
	// Keyword to a free-text match.
	Date    *time.Time
	Keyword string
}

// Validate rejects queries that must never reach the network.
func (q Query) Validate() error {
	if q.Origin == nil || q.Origin.IsZero() {
		return &ValidationError{Field: "origin", Message: "is required"}
	}
	if err := ValidateRadius(q.RadiusKm); err != nil {
		return err
	}
	if q.Category != "" && !q.Category.Valid() {
		return &ValidationError{Field: "category", Message: "unknown category " + string(q.Category)}
	}
	return nil
}

// ValidateRadius rejects radii that are not finite or fall outside (0, MaxRadiusKm].
func ValidateRadius(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km <= 0 || km > MaxRadiusKm {
		return &ValidationError{Field: "radius", Message: "must be greater than 0 and at most 20000 km"}
	}
	return nil
}

// Result is the ranked outcome of one discovery run.
type Result struct {
	ID          string             `json:"id"`
	Events      []Event            `json:"events"`
	DistanceKm  map[string]float64 `json:"distances"`
	Summary     string             `json:"summary"`
	GeneratedAt time.Time          `json:"generated_at"`
}
