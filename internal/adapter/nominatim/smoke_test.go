//go:build nominatim

package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/couchcryptid/event-discovery-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// These tests hit the public Nominatim instance and honour its 1 req/s policy.
// Run with: go test -tags=nominatim ./internal/adapter/nominatim/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	return &Client{
		userAgent:  "event-discovery-service-smoke/1.0",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://nominatim.openstreetmap.org",
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_Geocode(t *testing.T) {
	c := smokeClient(t)

	loc, ok := c.Geocode(context.Background(), "CN Tower, Toronto")
	require.True(t, ok)

	assert.InDelta(t, 43.64, loc.Latitude(), 0.05, "lat should be near the CN Tower")
	assert.InDelta(t, -79.39, loc.Longitude(), 0.05, "lon should be near the CN Tower")
	assert.Contains(t, loc.Address(), "Toronto")
}

func TestSmoke_Geocode_NoMatch(t *testing.T) {
	c := smokeClient(t)

	_, ok := c.Geocode(context.Background(), "XYZNONEXISTENT99 ZZ")
	assert.False(t, ok)
}
