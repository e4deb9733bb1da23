package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/event-discovery-service/internal/config"
	"github.com/couchcryptid/event-discovery-service/internal/domain"
	"github.com/couchcryptid/event-discovery-service/internal/observability"
)

// Client implements domain.Geocoder using the OpenStreetMap Nominatim search API.
type Client struct {
	userAgent  string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. Requests are throttled to
// the configured rate; the public instance allows one request per second.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		userAgent: cfg.NominatimUserAgent,
		httpClient: &http.Client{
			Timeout: cfg.NominatimTimeout,
		},
		baseURL: strings.TrimRight(cfg.NominatimBaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.NominatimRateLimit), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves address to the best-matching location. The returned
// location carries the provider's display name, not the caller's text.
// Blank input is rejected without a request; any failure yields false.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Location, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		c.metrics.GeocodeRequests.WithLabelValues("rejected").Inc()
		return domain.Location{}, false
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn("geocode rate limiter wait failed", "error", err)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Location{}, false
	}

	start := time.Now()
	loc, found, err := c.search(ctx, address)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.logger.Warn("geocoding failed", "address", address, "error", err)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Location{}, false
	case !found:
		c.logger.Debug("geocoding found no match", "address", address)
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.Location{}, false
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return loc, true
}

// IsValidAddress reports whether address geocodes to a location.
func (c *Client) IsValidAddress(ctx context.Context, address string) bool {
	_, ok := c.Geocode(ctx, address)
	return ok
}

func (c *Client) search(ctx context.Context, address string) (domain.Location, bool, error) {
	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Location{}, false, &domain.TransportError{Op: "geocode", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Location{}, false, &domain.TransportError{
			Op:         "geocode",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("nominatim API error: %s", body),
		}
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Location{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.Location{}, false, nil
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	loc, err := domain.NewLocation(p.DisplayName, lat, lon)
	if err != nil {
		return domain.Location{}, false, err
	}
	return loc, true, nil
}

// Nominatim API response types.

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
