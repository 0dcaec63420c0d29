package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/algoflow/pkg/observability"
)

var (
	_ observability.SimulationHooks = (*Registry)(nil)
	_ observability.CacheHooks      = (*Registry)(nil)
	_ observability.HTTPHooks       = (*Registry)(nil)
)

// Install registers r as the process-wide simulation, cache and HTTP hooks.
func (r *Registry) Install() {
	observability.SetSimulationHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// OnLoad implements observability.SimulationHooks.
func (r *Registry) OnLoad(_ context.Context, structType string, nodes, _ int) {
	r.ScenesLoadedTotal.WithLabelValues(structType).Inc()
	r.SceneNodes.WithLabelValues(structType).Set(float64(nodes))
}

// OnFrame implements observability.SimulationHooks.
func (r *Registry) OnFrame(_ context.Context, structType string, duration time.Duration, energy float64) {
	r.FramesTotal.WithLabelValues(structType).Inc()
	r.FrameDuration.WithLabelValues(structType).Observe(duration.Seconds())
	r.SceneEnergy.WithLabelValues(structType).Set(energy)
}

// OnGrab implements observability.SimulationHooks.
func (r *Registry) OnGrab(_ context.Context, source, _ string) {
	r.GrabsTotal.WithLabelValues(source).Inc()
}

// OnRelease implements observability.SimulationHooks.
func (r *Registry) OnRelease(_ context.Context, source, _ string) {
	r.ReleasesTotal.WithLabelValues(source).Inc()
}

// OnSwap implements observability.SimulationHooks.
func (r *Registry) OnSwap(context.Context, string, string) {
	r.SwapsTotal.Inc()
}

// OnPinch implements observability.SimulationHooks.
func (r *Registry) OnPinch(_ context.Context, engaged bool) {
	if engaged {
		r.PinchEngagedTotal.Inc()
	} else {
		r.PinchReleasedTotal.Inc()
	}
}

// OnRender implements observability.SimulationHooks.
func (r *Registry) OnRender(_ context.Context, format string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.RendersTotal.WithLabelValues(format, status).Inc()
	r.RenderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	status := strconv.Itoa(statusCode)
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// OnError implements observability.HTTPHooks.
func (r *Registry) OnError(_ context.Context, method, route string, _ error) {
	r.HTTPErrorsTotal.WithLabelValues(method, route).Inc()
}

// SetSessions records the number of live sessions.
func (r *Registry) SetSessions(n int) {
	r.SessionsActive.Set(float64(n))
}
