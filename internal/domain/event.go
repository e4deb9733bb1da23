package domain

import (
	"strings"
	"time"
)

// PlaceholderImageURL stands in for events the provider sent without artwork.
const PlaceholderImageURL = "https://placehold.co/640x360?text=Event"

// Event is a normalized event record. Two events with the same ID are the
// same event regardless of their other fields.
//
// The JSON form matches the saved-events lists kept per user:
// {id, name, description, category, imageUrl, startTime, location:{...}}.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	StartTime   time.Time `json:"startTime"`
	Location    Location  `json:"location"`
}

// NewEvent validates required fields and applies defaults: an unknown
// category becomes MISCELLANEOUS and an empty image URL becomes the placeholder.
func NewEvent(id, name, description string, category Category, loc Location, start time.Time, imageURL string) (Event, error) {
	e := Event{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Description: description,
		Category:    category,
		ImageURL:    strings.TrimSpace(imageURL),
		StartTime:   start,
		Location:    loc,
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	if !e.Category.Valid() {
		e.Category = CategoryMiscellaneous
	}
	if e.ImageURL == "" {
		e.ImageURL = PlaceholderImageURL
	}
	return e, nil
}

// Validate checks the fields every event must carry.
func (e Event) Validate() error {
	switch {
	case e.ID == "":
		return &ValidationError{Field: "id", Message: "must not be empty"}
	case e.Name == "":
		return &ValidationError{Field: "name", Message: "must not be empty"}
	case e.Location.IsZero():
		return &ValidationError{Field: "location", Message: "is required"}
	}
	return nil
}

// Address is the venue address of the event.
func (e Event) Address() string { return e.Location.Address() }

// SameEvent compares identity by ID only.
func (e Event) SameEvent(other Event) bool { return e.ID == other.ID }
