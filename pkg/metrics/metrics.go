package metrics

import (
	"time"
)

// Render modes
const (
	ModeImmediate = "immediate"
	ModeAnimated  = "animated"
)

// Transition outcomes
const (
	OutcomeStarted     = "started"
	OutcomeEnded       = "ended"
	OutcomeInterrupted = "interrupted"
	OutcomeEmpty       = "empty"
)

// All Record methods are no-ops on a nil registry so components can carry an
// optional *Registry without checking it.

// RecordRender records a viewport render
func (r *Registry) RecordRender(mode string) {
	if r == nil {
		return
	}
	r.RendersTotal.WithLabelValues(mode).Inc()
}

// RecordResize records a canvas attribute write for one axis ("width" or "height")
func (r *Registry) RecordResize(axis string) {
	if r == nil {
		return
	}
	r.CanvasResizesTotal.WithLabelValues(axis).Inc()
}

// RecordTransition records a transition lifecycle outcome
func (r *Registry) RecordTransition(outcome string) {
	if r == nil {
		return
	}
	r.TransitionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveTransitionDuration records how long a completed transition ran
func (r *Registry) ObserveTransitionDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.TransitionDuration.Observe(d.Seconds())
}

// SessionOpened increments the live session gauge
func (r *Registry) SessionOpened() {
	if r == nil {
		return
	}
	r.LiveSessions.Inc()
}

// SessionClosed decrements the live session gauge
func (r *Registry) SessionClosed() {
	if r == nil {
		return
	}
	r.LiveSessions.Dec()
}

// RecordPatchesSent adds n to the live patch counter
func (r *Registry) RecordPatchesSent(n int) {
	if r == nil {
		return
	}
	r.LivePatchesSent.Add(float64(n))
}

// RecordLayoutBroadcast records a layout frame delivered to all sessions
func (r *Registry) RecordLayoutBroadcast() {
	if r == nil {
		return
	}
	r.LiveLayoutBroadcast.Inc()
}
