package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/event-discovery-service/internal/config"
	"github.com/couchcryptid/event-discovery-service/internal/domain"
	"github.com/couchcryptid/event-discovery-service/internal/observability"
)

// pageSize is the single page requested per search; pagination is not followed.
const pageSize = 50

// instantLayout formats UTC day-window bounds as ISO-8601 instants.
const instantLayout = "2006-01-02T15:04:05Z"

// classificationNames maps categories to Ticketmaster segment names.
// MISCELLANEOUS has no entry and adds no filter.
var classificationNames = map[domain.Category]string{
	domain.CategoryMusic:       "Music",
	domain.CategorySports:      "Sports",
	domain.CategoryArtsTheatre: "Arts & Theatre",
	domain.CategoryFilm:        "Film",
}

// Client implements domain.EventSource using the Ticketmaster Discovery API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	imageIndex int
	metrics    *observability.Metrics
	logger     *slog.Logger
	failing    atomic.Bool
}

// NewClient creates a Ticketmaster client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: cfg.TicketmasterAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.TicketmasterTimeout,
		},
		baseURL:    strings.TrimRight(cfg.TicketmasterBaseURL, "/"),
		imageIndex: cfg.TicketmasterImageIndex,
		metrics:    metrics,
		logger:     logger,
	}
}

// FindByLocation returns events around origin, nearest first.
func (c *Client) FindByLocation(ctx context.Context, origin domain.Location, radiusKm float64) ([]domain.Event, error) {
	params, err := c.locationParams(origin, radiusKm)
	if err != nil {
		return nil, err
	}
	return c.search(ctx, "location", params)
}

// FindByCategory returns events around origin in the given category.
func (c *Client) FindByCategory(ctx context.Context, origin domain.Location, radiusKm float64, category domain.Category) ([]domain.Event, error) {
	params, err := c.locationParams(origin, radiusKm)
	if err != nil {
		return nil, err
	}
	if name, ok := classificationNames[category]; ok {
		params.Set("classificationName", name)
	}
	return c.search(ctx, "category", params)
}

// FindByKeyword returns events around origin matching a free-text keyword.
func (c *Client) FindByKeyword(ctx context.Context, keyword string, origin domain.Location, radiusKm float64) ([]domain.Event, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, &domain.ValidationError{Field: "keyword", Message: "must not be blank"}
	}
	params, err := c.locationParams(origin, radiusKm)
	if err != nil {
		return nil, err
	}
	params.Set("keyword", keyword)
	return c.search(ctx, "keyword", params)
}

// FindByID looks up a single event. The result holds at most one event.
func (c *Client) FindByID(ctx context.Context, id string) ([]domain.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "must not be blank"}
	}
	params := url.Values{
		"apikey": {c.apiKey},
		"id":     {id},
		"size":   {strconv.Itoa(pageSize)},
	}
	return c.search(ctx, "id", params)
}

// FindByDate returns events around origin starting on the UTC calendar day of date.
func (c *Client) FindByDate(ctx context.Context, date time.Time, origin domain.Location, radiusKm float64) ([]domain.Event, error) {
	params, err := c.locationParams(origin, radiusKm)
	if err != nil {
		return nil, err
	}
	start, end := dayWindow(date)
	params.Set("startDateTime", start.Format(instantLayout))
	params.Set("endDateTime", end.Format(instantLayout))
	return c.search(ctx, "date", params)
}

// CheckReadiness reports an error while the most recent request to the
// events API failed in transport.
func (c *Client) CheckReadiness(_ context.Context) error {
	if c.failing.Load() {
		return errors.New("events api unavailable: last request failed")
	}
	return nil
}

func (c *Client) locationParams(origin domain.Location, radiusKm float64) (url.Values, error) {
	if origin.IsZero() {
		return nil, &domain.ValidationError{Field: "origin", Message: "is required"}
	}
	if err := domain.ValidateRadius(radiusKm); err != nil {
		return nil, err
	}
	return url.Values{
		"apikey":  {c.apiKey},
		"latlong": {fmt.Sprintf("%.6f,%.6f", origin.Latitude(), origin.Longitude())},
		"radius":  {strconv.Itoa(int(radiusKm))},
		"unit":    {"km"},
		"size":    {strconv.Itoa(pageSize)},
		"sort":    {"distance,asc"},
	}, nil
}

// dayWindow returns [00:00:00, 23:59:59] of date's UTC calendar day.
func dayWindow(date time.Time) (time.Time, time.Time) {
	d := date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
	return start, end
}

// search performs one request and parses the response. Transport failures are
// logged and produce an empty list; only caller cancellation is returned.
func (c *Client) search(ctx context.Context, op string, params url.Values) ([]domain.Event, error) {
	start := time.Now()
	raws, err := c.doRequest(ctx, op, c.baseURL+"/events.json?"+params.Encode())
	c.metrics.SourceAPIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.failing.Store(true)
		c.metrics.SourceRequests.WithLabelValues(op, "error").Inc()
		c.logger.Error("events api request failed", "operation", op, "error", err)
		return []domain.Event{}, nil
	}
	c.failing.Store(false)
	c.metrics.SourceRequests.WithLabelValues(op, "success").Inc()

	events := make([]domain.Event, 0, len(raws))
	for _, raw := range raws {
		event, err := parseEvent(raw, c.imageIndex)
		if err != nil {
			c.recordSkip(err)
			continue
		}
		events = append(events, event)
	}

	c.logger.Debug("events api search complete",
		"operation", op,
		"received", len(raws),
		"parsed", len(events),
	)
	return events, nil
}

func (c *Client) recordSkip(err error) {
	reason := "decode"
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		reason = perr.Field
	}
	c.metrics.EventsSkipped.WithLabelValues(reason).Inc()
	c.logger.Warn("skipping malformed event", "reason", reason, "error", err)
}

func (c *Client) doRequest(ctx context.Context, op, fullURL string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("ticketmaster API error: %s", body)}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if sr.Embedded == nil {
		return nil, nil
	}
	return sr.Embedded.Events, nil
}
