// Package metrics implements the observability hooks with Prometheus
// collectors and exposes them over HTTP.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every algoflow collector on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// Simulation metrics
	ScenesLoadedTotal  *prometheus.CounterVec
	SceneNodes         *prometheus.GaugeVec
	FramesTotal        *prometheus.CounterVec
	FrameDuration      *prometheus.HistogramVec
	SceneEnergy        *prometheus.GaugeVec
	GrabsTotal         *prometheus.CounterVec
	ReleasesTotal      *prometheus.CounterVec
	SwapsTotal         prometheus.Counter
	PinchEngagedTotal  prometheus.Counter
	PinchReleasedTotal prometheus.Counter
	RendersTotal       *prometheus.CounterVec
	RenderDuration     *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheSetBytes    *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPErrorsTotal      *prometheus.CounterVec

	// Session metrics
	SessionsActive prometheus.Gauge
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initSimulationMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
