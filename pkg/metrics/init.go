package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initViewportMetrics() {
	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphview_renders_total",
			Help: "Total number of viewport renders by mode",
		},
		[]string{"mode"},
	)

	r.CanvasResizesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphview_canvas_resizes_total",
			Help: "Total number of canvas attribute resizes by axis",
		},
		[]string{"axis"},
	)
}

func (r *Registry) initTransitionMetrics() {
	r.TransitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphview_transitions_total",
			Help: "Total number of attribute transitions by outcome",
		},
		[]string{"outcome"},
	)

	r.TransitionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphview_transition_duration_seconds",
			Help:    "Wall time from transition start to its end event",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 0.75, 1, 2, 5},
		},
	)
}

func (r *Registry) initLiveMetrics() {
	r.LiveSessions = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphview_live_sessions",
			Help: "Current number of connected live sessions",
		},
	)

	r.LivePatchesSent = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphview_live_patches_sent_total",
			Help: "Total number of patches written to live clients",
		},
	)

	r.LiveLayoutBroadcast = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphview_live_layout_broadcasts_total",
			Help: "Total number of layout frames broadcast to sessions",
		},
	)
}
