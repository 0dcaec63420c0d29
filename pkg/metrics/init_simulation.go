package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.ScenesLoadedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "algoflow_scenes_loaded_total",
			Help: "Total number of structure descriptions loaded",
		},
		[]string{"type"},
	)

	r.SceneNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "algoflow_scene_nodes",
			Help: "Node count of the most recently loaded structure",
		},
		[]string{"type"},
	)

	r.FramesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "algoflow_frames_total",
			Help: "Total number of simulation frames",
		},
		[]string{"type"},
	)

	r.FrameDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "algoflow_frame_duration_seconds",
			Help:    "Time spent computing one simulation frame",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.004, 0.008, 0.016, 0.033},
		},
		[]string{"type"},
	)

	r.SceneEnergy = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "algoflow_scene_energy",
			Help: "Kinetic energy of free nodes after the last frame",
		},
		[]string{"type"},
	)

	r.GrabsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "algoflow_grabs_total",
			Help: "Total number of node grabs",
		},
		[]string{"source"}, // pointer, gesture
	)

	r.ReleasesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "algoflow_releases_total",
			Help: "Total number of node releases",
		},
		[]string{"source"},
	)

	r.SwapsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "algoflow_slot_swaps_total",
			Help: "Total number of swap-on-proximity exchanges",
		},
	)

	r.PinchEngagedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "algoflow_pinch_engaged_total",
			Help: "Total number of pinch engagements",
		},
	)

	r.PinchReleasedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "algoflow_pinch_released_total",
			Help: "Total number of pinch releases",
		},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "algoflow_renders_total",
			Help: "Total number of snapshot renders",
		},
		[]string{"format", "status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "algoflow_render_duration_seconds",
			Help:    "Snapshot render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "algoflow_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "algoflow_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	r.CacheSetBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "algoflow_cache_set_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"key_type"},
	)
}
