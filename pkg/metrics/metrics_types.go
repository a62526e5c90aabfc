package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for graphview
type Registry struct {
	// Viewport Metrics
	RendersTotal       *prometheus.CounterVec
	CanvasResizesTotal *prometheus.CounterVec

	// Transition Metrics
	TransitionsTotal   *prometheus.CounterVec
	TransitionDuration prometheus.Histogram

	// Live Metrics
	LiveSessions        prometheus.Gauge
	LivePatchesSent     prometheus.Counter
	LiveLayoutBroadcast prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initViewportMetrics()
	r.initTransitionMetrics()
	r.initLiveMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
