package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/event-discovery-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const (
	testUserAgent     = "event-discovery-test/1.0"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		userAgent:  testUserAgent,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "100 Queen St W, Toronto", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode([]place{
			{Lat: "43.6534817", Lon: "-79.3839347", DisplayName: "Toronto City Hall, 100, Queen Street West, Toronto, Ontario, Canada"},
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	loc, ok := c.Geocode(context.Background(), "  100 Queen St W, Toronto ")
	require.True(t, ok)

	assert.Equal(t, "Toronto City Hall, 100, Queen Street West, Toronto, Ontario, Canada", loc.Address())
	assert.Equal(t, 43.6534817, loc.Latitude())
	assert.Equal(t, -79.3839347, loc.Longitude())
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("success")))
}

func TestClient_Geocode_BlankSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	for _, in := range []string{"", "   ", "\t\n"} {
		_, ok := c.Geocode(context.Background(), in)
		assert.False(t, ok)
	}
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, c.IsValidAddress(context.Background(), " "))
}

func TestClient_Geocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, ok := c.Geocode(context.Background(), "Nowhere Special 00000")
	assert.False(t, ok)
	assert.False(t, c.IsValidAddress(context.Background(), "Nowhere Special 00000"))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("empty")))
}

func TestClient_Geocode_FirstResultOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[
			{"lat": "45.5", "lon": "-73.56", "display_name": "Montréal, Québec, Canada"},
			{"lat": "0", "lon": "0", "display_name": "Null Island"}
		]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	loc, ok := c.Geocode(context.Background(), "Montreal")
	require.True(t, ok)
	assert.Equal(t, "Montréal, Québec, Canada", loc.Address())
	assert.True(t, c.IsValidAddress(context.Background(), "Montreal"))
}

func TestClient_Geocode_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"rate limited", http.StatusTooManyRequests, ``},
		{"not an array", http.StatusOK, `{"lat":"1"}`},
		{"bad latitude", http.StatusOK, `[{"lat":"north","lon":"1","display_name":"x"}]`},
		{"missing display name", http.StatusOK, `[{"lat":"1","lon":"1"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := testClient(srv.URL)
			_, ok := c.Geocode(context.Background(), "Toronto")
			assert.False(t, ok)
			assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("error")))
		})
	}
}

func TestClient_Geocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, ok := c.Geocode(context.Background(), "Toronto")
	assert.False(t, ok)
}

func TestClient_Geocode_CancelledWhileThrottled(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, c.limiter.Allow(), "drain the single token")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := c.Geocode(ctx, "Toronto")
	assert.False(t, ok)
}
