package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/event-discovery-service/internal/domain"
)

// DefaultRadiusKm applies when a nearby request omits radius.
const DefaultRadiusKm = 25.0

// Discoverer is the discovery use case served over HTTP.
type Discoverer interface {
	Discover(ctx context.Context, q domain.Query) (domain.Result, error)
	Lookup(ctx context.Context, id string) (domain.Event, error)
	ResolveOrigin(ctx context.Context, address string) (domain.Location, error)
}

// Server exposes the discovery API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	discoverer Discoverer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /v1 discovery routes plus
// /healthz, /readyz, and /metrics.
func NewServer(addr string, discoverer Discoverer, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		discoverer: discoverer,
		logger:     logger,
	}

	mux.HandleFunc("GET /v1/events/nearby", s.handleNearby)
	mux.HandleFunc("GET /v1/events/{id}", s.handleEvent)
	mux.HandleFunc("GET /v1/geocode", s.handleGeocode)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.discoverer.Discover(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.discoverer.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, event)
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	loc, err := s.discoverer.ResolveOrigin(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, loc)
}

// parseQuery builds a domain.Query from lat/lon or address plus optional
// radius, category, date (YYYY-MM-DD), and keyword parameters. The origin is
// resolved last so a bad request never spends a geocoding call.
func (s *Server) parseQuery(r *http.Request) (domain.Query, error) {
	params := r.URL.Query()
	q := domain.Query{RadiusKm: DefaultRadiusKm, Keyword: strings.TrimSpace(params.Get("keyword"))}

	if v := params.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.Query{}, &domain.ValidationError{Field: "radius", Message: fmt.Sprintf("%q is not a number", v)}
		}
		q.RadiusKm = radius
	}
	if err := domain.ValidateRadius(q.RadiusKm); err != nil {
		return domain.Query{}, err
	}
	if v := params.Get("category"); v != "" {
		category, err := domain.ParseCategory(v)
		if err != nil {
			return domain.Query{}, err
		}
		q.Category = category
	}
	if v := params.Get("date"); v != "" {
		date, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return domain.Query{}, &domain.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
		}
		q.Date = &date
	}

	origin, err := s.parseOrigin(r)
	if err != nil {
		return domain.Query{}, err
	}
	q.Origin = &origin
	return q, nil
}

func (s *Server) parseOrigin(r *http.Request) (domain.Location, error) {
	params := r.URL.Query()
	latStr, lonStr := params.Get("lat"), params.Get("lon")
	if latStr == "" && lonStr == "" {
		address := params.Get("address")
		if strings.TrimSpace(address) == "" {
			return domain.Location{}, &domain.ValidationError{Field: "origin", Message: "lat and lon or address is required"}
		}
		return s.discoverer.ResolveOrigin(r.Context(), address)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Location{}, &domain.ValidationError{Field: "latitude", Message: fmt.Sprintf("%q is not a number", latStr)}
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Location{}, &domain.ValidationError{Field: "longitude", Message: fmt.Sprintf("%q is not a number", lonStr)}
	}
	return domain.NewLocation(fmt.Sprintf("%.6f,%.6f", lat, lon), lat, lon)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var nerr *domain.NotFoundError
	switch {
	case errors.As(err, &verr):
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.As(err, &nerr):
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": nerr.Message})
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
