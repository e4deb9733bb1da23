package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for event discovery.
type Metrics struct {
	DiscoveryRequests *prometheus.CounterVec // labels: outcome={success,invalid,not_found,error}
	DiscoveryDuration prometheus.Histogram
	CandidatesFetched prometheus.Histogram
	EventsReturned    prometheus.Histogram

	// Events API metrics.
	SourceRequests    *prometheus.CounterVec   // labels: operation={location,category,keyword,id,date}, outcome={success,error}
	SourceAPIDuration *prometheus.HistogramVec // labels: operation
	EventsSkipped     *prometheus.CounterVec   // labels: reason={decode,id,name,venue,start}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty,rejected}
	GeocodeAPIDuration prometheus.Histogram

	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all discovery metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DiscoveryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_discovery",
			Name:      "requests_total",
			Help:      "Discovery pipeline invocations by outcome.",
		}, []string{"outcome"}),
		DiscoveryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "event_discovery",
			Name:      "duration_seconds",
			Help:      "Duration of a complete validate-fetch-rank cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CandidatesFetched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "event_discovery",
			Name:      "candidates_fetched",
			Help:      "Number of candidate events returned by the events API per discovery.",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 50},
		}),
		EventsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "event_discovery",
			Name:      "events_returned",
			Help:      "Number of ranked events returned per successful discovery.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50},
		}),
		SourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_discovery",
			Name:      "source_requests_total",
			Help:      "Events API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		SourceAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "event_discovery",
			Name:      "source_api_duration_seconds",
			Help:      "Events API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		EventsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_discovery",
			Name:      "source_events_skipped_total",
			Help:      "Malformed events dropped while parsing an events API response.",
		}, []string{"reason"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_discovery",
			Name:      "geocode_requests_total",
			Help:      "Geocoding lookups by outcome.",
		}, []string{"outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "event_discovery",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event_discovery",
			Name:      "publish_errors_total",
			Help:      "Discovery results that could not be published to Kafka.",
		}),
	}

	prometheus.MustRegister(
		m.DiscoveryRequests,
		m.DiscoveryDuration,
		m.CandidatesFetched,
		m.EventsReturned,
		m.SourceRequests,
		m.SourceAPIDuration,
		m.EventsSkipped,
		m.GeocodeRequests,
		m.GeocodeAPIDuration,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DiscoveryRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_discovery", Name: "requests_total"}, []string{"outcome"}),
		DiscoveryDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "event_discovery", Name: "duration_seconds"}),
		CandidatesFetched:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "event_discovery", Name: "candidates_fetched"}),
		EventsReturned:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "event_discovery", Name: "events_returned"}),
		SourceRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_discovery", Name: "source_requests_total"}, []string{"operation", "outcome"}),
		SourceAPIDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "event_discovery", Name: "source_api_duration_seconds"}, []string{"operation"}),
		EventsSkipped:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_discovery", Name: "source_events_skipped_total"}, []string{"reason"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_discovery", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "event_discovery", Name: "geocode_api_duration_seconds"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "event_discovery", Name: "publish_errors_total"}),
	}
}
