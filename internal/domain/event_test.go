package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventID = "vvG1IZ9YbmSJ5d"

func TestNewEvent(t *testing.T) {
	venue := mustLocation(t, "Massey Hall, Toronto", 43.6540, -79.3788)
	start := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	t.Run("defaults applied", func(t *testing.T) {
		e, err := NewEvent(testEventID, "Jazz Night", "", CategoryMusic, venue, start, "")
		require.NoError(t, err)
		assert.Equal(t, testEventID, e.ID)
		assert.Equal(t, "", e.Description)
		assert.Equal(t, PlaceholderImageURL, e.ImageURL)
		assert.Equal(t, "Massey Hall, Toronto", e.Address())
	})

	t.Run("unknown category falls back", func(t *testing.T) {
		e, err := NewEvent(testEventID, "Jazz Night", "", Category("COMEDY"), venue, start, "https://img/1.jpg")
		require.NoError(t, err)
		assert.Equal(t, CategoryMiscellaneous, e.Category)
		assert.Equal(t, "https://img/1.jpg", e.ImageURL)
	})

	tests := []struct {
		name  string
		id    string
		title string
		loc   Location
		field string
	}{
		{"missing id", "", "Jazz Night", venue, "id"},
		{"blank name", testEventID, "  ", venue, "name"},
		{"missing location", testEventID, "Jazz Night", Location{}, "location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvent(tt.id, tt.title, "", CategoryMusic, tt.loc, start, "")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEvent_SameEvent(t *testing.T) {
	a := Event{ID: "1", Name: "A"}
	b := Event{ID: "1", Name: "B", Category: CategoryFilm}
	c := Event{ID: "2", Name: "A"}

	assert.True(t, a.SameEvent(b))
	assert.False(t, a.SameEvent(c))
}

func TestEvent_SavedEventFormat(t *testing.T) {
	venue := mustLocation(t, "Massey Hall, Toronto", 43.654, -79.3788)
	start := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	e, err := NewEvent(testEventID, "Jazz Night", "Doors at 7", CategoryMusic, venue, start, "https://img/1.jpg")
	require.NoError(t, err)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "vvG1IZ9YbmSJ5d",
		"name": "Jazz Night",
		"description": "Doors at 7",
		"category": "MUSIC",
		"imageUrl": "https://img/1.jpg",
		"startTime": "2024-05-01T20:00:00Z",
		"location": {"address": "Massey Hall, Toronto", "latitude": 43.654, "longitude": -79.3788}
	}`, string(data))

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, e.Category, decoded.Category)
	assert.True(t, e.StartTime.Equal(decoded.StartTime))
	assert.True(t, e.Location.Equal(decoded.Location))
}
