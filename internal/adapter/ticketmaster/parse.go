package ticketmaster

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/event-discovery-service/internal/domain"
)

// addressUnavailable is used when a venue carries no address parts at all.
const addressUnavailable = "Address not available"

// defaultLocalTime applies to events that publish a date without a time.
const defaultLocalTime = "19:00:00"

const localDateTimeLayout = "2006-01-02T15:04:05"

var errMissing = errors.New("missing")

// Ticketmaster API response types. Each event is kept raw so one malformed
// event cannot fail the decode of the whole page.

type searchResponse struct {
	Embedded *struct {
		Events []json.RawMessage `json:"events"`
	} `json:"_embedded"`
}

type named struct {
	Name string `json:"name"`
}

type classification struct {
	Segment *named `json:"segment"`
	Genre   *named `json:"genre"`
}

type venue struct {
	Name    string `json:"name"`
	Address *struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City  *named `json:"city"`
	State *struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Location *struct {
		Latitude  coordinate `json:"latitude"`
		Longitude coordinate `json:"longitude"`
	} `json:"location"`
}

type eventDates struct {
	Start struct {
		DateTime  string `json:"dateTime"`
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
	} `json:"start"`
}

type image struct {
	URL string `json:"url"`
}

// coordinate accepts both the string form the API documents ("43.6435") and
// plain JSON numbers.
type coordinate struct {
	value float64
	set   bool
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	c.value, c.set = v, true
	return nil
}

// parseEvent normalizes one raw event. Required parts (id, name, venue
// coordinates, start time) fail with a *domain.ParseError naming the part;
// everything else falls back to a default.
func parseEvent(raw json.RawMessage, imageIndex int) (domain.Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Event{}, &domain.ParseError{Field: "decode", Err: err}
	}

	id, ok := stringField(fields, "id")
	if !ok {
		return domain.Event{}, &domain.ParseError{Field: "id", Err: errMissing}
	}
	name, ok := stringField(fields, "name")
	if !ok {
		return domain.Event{}, &domain.ParseError{EventID: id, Field: "name", Err: errMissing}
	}

	loc, err := parseVenue(fields["_embedded"])
	if err != nil {
		return domain.Event{}, &domain.ParseError{EventID: id, Field: "venue", Err: err}
	}
	start, err := parseStart(fields["dates"])
	if err != nil {
		return domain.Event{}, &domain.ParseError{EventID: id, Field: "start", Err: err}
	}

	event, err := domain.NewEvent(
		id,
		name,
		firstString(fields, "info", "description", "pleaseNote"),
		parseCategory(fields["classifications"]),
		loc,
		start,
		pickImage(fields["images"], imageIndex),
	)
	if err != nil {
		return domain.Event{}, &domain.ParseError{EventID: id, Field: "event", Err: err}
	}
	return event, nil
}

// decodeField decodes fields[key] into T, reporting false when the key is
// absent or has an unexpected shape.
func decodeField[T any](fields map[string]json.RawMessage, key string) (T, bool) {
	var v T
	raw, ok := fields[key]
	if !ok || len(raw) == 0 {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	s, ok := decodeField[string](fields, key)
	s = strings.TrimSpace(s)
	return s, ok && s != ""
}

func firstString(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if s, ok := stringField(fields, k); ok {
			return s
		}
	}
	return ""
}

// parseCategory classifies the first classification's segment name, then its
// genre name, keeping the first result that is not MISCELLANEOUS.
func parseCategory(raw json.RawMessage) domain.Category {
	var classes []classification
	if len(raw) == 0 || json.Unmarshal(raw, &classes) != nil || len(classes) == 0 {
		return domain.CategoryMiscellaneous
	}
	first := classes[0]
	for _, n := range []*named{first.Segment, first.Genre} {
		if n == nil {
			continue
		}
		if c := domain.Classify(n.Name); c != domain.CategoryMiscellaneous {
			return c
		}
	}
	return domain.CategoryMiscellaneous
}

// parseVenue builds a location from the first embedded venue.
func parseVenue(raw json.RawMessage) (domain.Location, error) {
	var embedded struct {
		Venues []venue `json:"venues"`
	}
	if len(raw) == 0 {
		return domain.Location{}, errMissing
	}
	if err := json.Unmarshal(raw, &embedded); err != nil {
		return domain.Location{}, err
	}
	if len(embedded.Venues) == 0 {
		return domain.Location{}, errMissing
	}
	v := embedded.Venues[0]
	if v.Location == nil || !v.Location.Latitude.set || !v.Location.Longitude.set {
		return domain.Location{}, errMissing
	}
	return domain.NewLocation(venueAddress(v), v.Location.Latitude.value, v.Location.Longitude.value)
}

func venueAddress(v venue) string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	add(v.Name)
	if v.Address != nil {
		add(v.Address.Line1)
	}
	if v.City != nil {
		add(v.City.Name)
	}
	if v.State != nil {
		add(v.State.StateCode)
	}
	if len(parts) == 0 {
		return addressUnavailable
	}
	return strings.Join(parts, ", ")
}

// parseStart prefers dates.start.dateTime and otherwise combines localDate
// with localTime (19:00:00 when absent). Times carry no zone adjustment: the
// trailing "Z" is dropped and the wall-clock value is kept.
func parseStart(raw json.RawMessage) (time.Time, error) {
	var dates eventDates
	if len(raw) == 0 {
		return time.Time{}, errMissing
	}
	if err := json.Unmarshal(raw, &dates); err != nil {
		return time.Time{}, err
	}
	s := dates.Start

	if dt := strings.TrimSpace(s.DateTime); dt != "" {
		return time.Parse(localDateTimeLayout, strings.TrimSuffix(dt, "Z"))
	}
	if ld := strings.TrimSpace(s.LocalDate); ld != "" {
		lt := strings.TrimSpace(s.LocalTime)
		if lt == "" {
			lt = defaultLocalTime
		}
		return time.Parse(localDateTimeLayout, ld+"T"+lt)
	}
	return time.Time{}, errMissing
}

// pickImage returns the image at the preferred index, falling back to the
// first image with a URL. Image order in the feed is not guaranteed.
func pickImage(raw json.RawMessage, preferred int) string {
	var images []image
	if len(raw) == 0 || json.Unmarshal(raw, &images) != nil {
		return ""
	}
	if preferred >= 0 && preferred < len(images) {
		if u := strings.TrimSpace(images[preferred].URL); u != "" {
			return u
		}
	}
	for _, img := range images {
		if u := strings.TrimSpace(img.URL); u != "" {
			return u
		}
	}
	return ""
}
