package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/event-discovery-service/internal/domain"
	"github.com/couchcryptid/event-discovery-service/internal/observability"
)

// ResultPublisher hands a finished discovery to downstream consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, q domain.Query, result domain.Result) error
}

// Pipeline orchestrates validate → fetch → filter → rank → summarize.
type Pipeline struct {
	source    domain.EventSource
	geocoder  domain.Geocoder
	publisher ResultPublisher
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithGeocoder enables ResolveOrigin.
func WithGeocoder(g domain.Geocoder) Option {
	return func(p *Pipeline) { p.geocoder = g }
}

// WithPublisher publishes every successful result.
func WithPublisher(pub ResultPublisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithTimeout bounds each Discover and Lookup call.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// New creates a Pipeline over the given event source.
func New(source domain.EventSource, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Discover runs one discovery. It returns a *domain.ValidationError for a bad
// query (no I/O is attempted), a *domain.NotFoundError when nothing matches,
// and a plain error for cancellation or an unexpected failure. A panic inside
// the pipeline is recovered and returned as an error.
func (p *Pipeline) Discover(ctx context.Context, q domain.Query) (result domain.Result, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("discovery panicked", "panic", r)
			result, err = domain.Result{}, fmt.Errorf("discovery failed: %v", r)
		}
		p.metrics.DiscoveryRequests.WithLabelValues(outcome(err)).Inc()
		p.metrics.DiscoveryDuration.Observe(time.Since(start).Seconds())
	}()

	if err := q.Validate(); err != nil {
		return domain.Result{}, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	candidates, err := p.fetch(ctx, q)
	if err != nil {
		return domain.Result{}, fmt.Errorf("fetch events: %w", err)
	}
	p.metrics.CandidatesFetched.Observe(float64(len(candidates)))

	ranked, distances := rank(dedupe(candidates), *q.Origin, q.RadiusKm, q.Category)
	if len(ranked) == 0 {
		return domain.Result{}, &domain.NotFoundError{Message: notFoundMessage(q)}
	}

	result = domain.Result{
		ID:          uuid.NewString(),
		Events:      ranked,
		DistanceKm:  distances,
		Summary:     summary(len(ranked), q),
		GeneratedAt: domain.Now(),
	}
	p.metrics.EventsReturned.Observe(float64(len(ranked)))
	p.logger.Info("discovery complete",
		"discovery_id", result.ID,
		"candidates", len(candidates),
		"events", len(ranked),
		"radius_km", q.RadiusKm,
		"category", string(q.Category),
	)

	p.publish(ctx, q, result)
	return result, nil
}

// Lookup fetches a single event by its provider ID.
func (p *Pipeline) Lookup(ctx context.Context, id string) (domain.Event, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	events, err := p.source.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	for _, e := range events {
		if e.ID == strings.TrimSpace(id) {
			return e, nil
		}
	}
	return domain.Event{}, &domain.NotFoundError{Message: fmt.Sprintf("No event found with id %q", id)}
}

// ResolveOrigin geocodes a free-text address into a query origin.
func (p *Pipeline) ResolveOrigin(ctx context.Context, address string) (domain.Location, error) {
	if strings.TrimSpace(address) == "" {
		return domain.Location{}, &domain.ValidationError{Field: "address", Message: "must not be blank"}
	}
	if p.geocoder == nil {
		return domain.Location{}, errors.New("geocoding is not configured")
	}
	loc, ok := p.geocoder.Geocode(ctx, address)
	if !ok {
		return domain.Location{}, &domain.NotFoundError{Message: fmt.Sprintf("Could not find a location for %q", address)}
	}
	return loc, nil
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// fetch picks the narrowest upstream search the query hints at.
func (p *Pipeline) fetch(ctx context.Context, q domain.Query) ([]domain.Event, error) {
	origin := *q.Origin
	switch {
	case q.Date != nil:
		return p.source.FindByDate(ctx, *q.Date, origin, q.RadiusKm)
	case strings.TrimSpace(q.Keyword) != "":
		return p.source.FindByKeyword(ctx, q.Keyword, origin, q.RadiusKm)
	case q.Category != "" && q.Category != domain.CategoryMiscellaneous:
		return p.source.FindByCategory(ctx, origin, q.RadiusKm, q.Category)
	default:
		return p.source.FindByLocation(ctx, origin, q.RadiusKm)
	}
}

func (p *Pipeline) publish(ctx context.Context, q domain.Query, result domain.Result) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, q, result); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish discovery result failed", "discovery_id", result.ID, "error", err)
	}
}

// dedupe keeps the first occurrence of each event ID.
func dedupe(events []domain.Event) []domain.Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// rank applies the radius and category filters and sorts by distance,
// keeping fetch order between equal distances. The distance map covers only
// the returned events.
func rank(events []domain.Event, origin domain.Location, radiusKm float64, category domain.Category) ([]domain.Event, map[string]float64) {
	type scored struct {
		event    domain.Event
		distance float64
	}

	kept := make([]scored, 0, len(events))
	for _, e := range events {
		d := domain.Distance(e.Location, origin)
		if d > radiusKm {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		kept = append(kept, scored{event: e, distance: d})
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].distance < kept[j].distance })

	ranked := make([]domain.Event, len(kept))
	distances := make(map[string]float64, len(kept))
	for i, s := range kept {
		ranked[i] = s.event
		distances[s.event.ID] = s.distance
	}
	return ranked, distances
}

func summary(count int, q domain.Query) string {
	noun := "events"
	if count == 1 {
		noun = "event"
	}
	if q.Category != "" {
		noun = q.Category.DisplayName() + " " + noun
	}
	return fmt.Sprintf("Found %d %s within %s km", count, noun, formatKm(q.RadiusKm))
}

func notFoundMessage(q domain.Query) string {
	noun := "events"
	if q.Category != "" {
		noun = q.Category.DisplayName() + " events"
	}
	return fmt.Sprintf("No %s found within %s km", noun, formatKm(q.RadiusKm))
}

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}

func outcome(err error) string {
	var verr *domain.ValidationError
	var nerr *domain.NotFoundError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr):
		return "invalid"
	case errors.As(err, &nerr):
		return "not_found"
	default:
		return "error"
	}
}
