package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// ErrNoLocation is returned when a distance is requested against a missing point.
var ErrNoLocation = errors.New("no location to measure distance to")

// Location is an immutable WGS-84 coordinate paired with a human-readable address.
// The zero value is not a valid location; build one with NewLocation.
type Location struct {
	address   string
	latitude  float64
	longitude float64
}

// NewLocation validates and builds a Location. The address is trimmed and must
// not be blank; latitude must lie in [-90, 90] and longitude in [-180, 180].
func NewLocation(address string, latitude, longitude float64) (Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Location{}, &ValidationError{Field: "address", Message: "must not be blank"}
	}
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return Location{}, &ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return Location{}, &ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
	}
	return Location{address: address, latitude: latitude, longitude: longitude}, nil
}

// Address returns the trimmed display address.
func (l Location) Address() string { return l.address }

// Latitude returns the latitude in decimal degrees.
func (l Location) Latitude() float64 { return l.latitude }

// Longitude returns the longitude in decimal degrees.
func (l Location) Longitude() float64 { return l.longitude }

// IsZero reports whether l was never constructed.
func (l Location) IsZero() bool { return l == Location{} }

// Equal reports structural equality.
func (l Location) Equal(other Location) bool { return l == other }

// DistanceTo returns the great-circle distance in kilometres to other.
// A nil other yields ErrNoLocation rather than a sentinel distance.
func (l Location) DistanceTo(other *Location) (float64, error) {
	if other == nil {
		return 0, ErrNoLocation
	}
	return Distance(l, *other), nil
}

// Distance computes the Haversine great-circle distance between a and b in kilometres.
func Distance(a, b Location) float64 {
	lat1 := toRadians(a.latitude)
	lat2 := toRadians(b.latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.longitude - a.longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

type locationJSON struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarshalJSON encodes the location as {address, latitude, longitude}.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(locationJSON{Address: l.address, Latitude: l.latitude, Longitude: l.longitude})
}

// UnmarshalJSON decodes and validates a location.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw locationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	loc, err := NewLocation(raw.Address, raw.Latitude, raw.Longitude)
	if err != nil {
		return err
	}
	*l = loc
	return nil
}
