package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the application's Prometheus metrics. A nil *Manager is valid and
// records nothing, so services can be built without metrics in tests.
type Manager struct {
	Registry         *prometheus.Registry
	ListingMutations *prometheus.CounterVec   // by action and outcome
	PropertyViews    prometheus.Counter       // detail-page views recorded
	ImageUploads     *prometheus.CounterVec   // by outcome
	RequestLatency   *prometheus.HistogramVec // by method, route and status
}

// NewManager initializes and registers metrics on a private registry.
func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_mutations_total",
		Help:      "Listing mutations by action and outcome.",
	}, []string{"action", "outcome"})
	views := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "property_views_total",
		Help:      "Total number of recorded property detail views.",
	})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Listing image uploads to object storage by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	registry.MustRegister(
		mutations,
		views,
		uploads,
		latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:         registry,
		ListingMutations: mutations,
		PropertyViews:    views,
		ImageUploads:     uploads,
		RequestLatency:   latency,
	}
}

// Mutation counts one listing mutation; err decides the outcome label.
func (m *Manager) Mutation(action string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ListingMutations.WithLabelValues(action, outcome).Inc()
}

func (m *Manager) View() {
	if m == nil {
		return
	}
	m.PropertyViews.Inc()
}

func (m *Manager) Upload(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ImageUploads.WithLabelValues(outcome).Inc()
}

func (m *Manager) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(method, route, status).Observe(seconds)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
