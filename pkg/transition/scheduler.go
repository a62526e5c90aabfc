// Package transition animates attributes of svg elements over time.
//
// A Scheduler keeps at most one active transition per element attribute.
// Scheduling a new one interrupts the previous: the interrupted transition
// never fires its end event. Transitions that have nothing to animate are
// empty and fire no events at all, so callers must check Empty before
// waiting for the end.
package transition

import (
	"context"
	"sync"
	"time"

	"github.com/recera/graphview/pkg/debug"
	"github.com/recera/graphview/pkg/metrics"
	"github.com/recera/graphview/pkg/svg"
)

// DefaultFrameInterval is the tick period used by Run when none is given
const DefaultFrameInterval = 16 * time.Millisecond

// Observer receives transition lifecycle outcomes
type Observer interface {
	RecordTransition(outcome string)
	ObserveTransitionDuration(d time.Duration)
}

type state uint8

const (
	stateRunning state = iota
	stateEnded
	stateInterrupted
	stateEmpty
)

type key struct {
	el   *svg.Element
	attr string
}

// Scheduler manages active transitions
type Scheduler struct {
	mu       sync.Mutex
	now      func() time.Time
	active   map[key]*Transition
	observer Observer
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces time.Now as the scheduler's time source
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithObserver reports transition outcomes to o
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// NewScheduler creates a new scheduler instance
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		now:    time.Now,
		active: make(map[key]*Transition),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the scheduler's current time
func (s *Scheduler) Now() time.Time { return s.now() }

// Active returns the number of running transitions
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Builder collects the timing of a transition before its target is set
type Builder struct {
	s        *Scheduler
	el       *svg.Element
	duration time.Duration
	ease     Ease
}

// Select starts building a transition on el
func (s *Scheduler) Select(el *svg.Element) *Builder {
	return &Builder{s: s, el: el, ease: EaseCubicInOut}
}

// Duration sets how long the transition runs
func (b *Builder) Duration(d time.Duration) *Builder {
	b.duration = d
	return b
}

// Ease sets the easing function
func (b *Builder) Ease(e Ease) *Builder {
	if e != nil {
		b.ease = e
	}
	return b
}

// identityTransform is the start value of a transform that was never set
const identityTransform = "translate(0,0)"

// Attr schedules the attribute to move from its current value to value.
// The transition is empty when the duration is not positive (the value is
// written at once) or when the attribute already holds value. An unset
// transform animates from the identity.
func (b *Builder) Attr(name, value string) *Transition {
	s := b.s
	from, _ := b.el.Attr(name)
	start := from
	if start == "" && name == "transform" {
		start = identityTransform
	}

	t := &Transition{
		s:        s,
		el:       b.el,
		attr:     name,
		from:     from,
		to:       value,
		duration: b.duration,
		ease:     b.ease,
	}

	s.mu.Lock()
	k := key{el: b.el, attr: name}
	prev, callbacks := s.interruptLocked(k)
	if b.duration <= 0 || from == value {
		t.state = stateEmpty
	} else {
		t.interp = InterpolateString(start, value)
		t.start = s.now()
		s.active[k] = t
	}
	s.mu.Unlock()

	s.interrupted(prev, callbacks)

	if t.state == stateEmpty {
		if from != value {
			b.el.SetAttr(name, value)
		}
		s.record(metrics.OutcomeEmpty)
		return t
	}

	s.record(metrics.OutcomeStarted)
	debug.Logger().Debug("transition scheduled", "node", b.el.ID(), "attr", name, "from", from, "to", value, "duration", b.duration)
	return t
}

// Interrupt stops the running transition of attr on el, if any, leaving
// the attribute at its current frame. The stopped transition never fires
// end. It reports whether a transition was running.
func (s *Scheduler) Interrupt(el *svg.Element, attr string) bool {
	s.mu.Lock()
	prev, callbacks := s.interruptLocked(key{el: el, attr: attr})
	s.mu.Unlock()

	s.interrupted(prev, callbacks)
	return prev != nil
}

// interruptLocked removes the active transition for k and returns it with
// its interrupt callbacks. s.mu must be held.
func (s *Scheduler) interruptLocked(k key) (*Transition, []func()) {
	prev := s.active[k]
	if prev == nil {
		return nil, nil
	}
	delete(s.active, k)
	prev.state = stateInterrupted
	callbacks := prev.onInterrupt
	prev.onInterrupt, prev.onEnd = nil, nil
	return prev, callbacks
}

// interrupted records prev and runs its callbacks outside the lock
func (s *Scheduler) interrupted(prev *Transition, callbacks []func()) {
	if prev == nil {
		return
	}
	s.record(metrics.OutcomeInterrupted)
	debug.Logger().Debug("transition interrupted", "node", prev.el.ID(), "attr", prev.attr, "target", prev.to)
	for _, fn := range callbacks {
		fn()
	}
}

func (s *Scheduler) record(outcome string) {
	if s.observer != nil {
		s.observer.RecordTransition(outcome)
	}
}

// Tick advances every active transition to now. Finished transitions write
// their exact target value and then fire their end callbacks.
// Attribute writes happen with the scheduler locked, so document
// subscribers must not call back into the scheduler.
func (s *Scheduler) Tick(now time.Time) {
	var ended []*Transition

	s.mu.Lock()
	for k, t := range s.active {
		p := float64(now.Sub(t.start)) / float64(t.duration)
		if p < 0 {
			p = 0
		}
		if p >= 1 {
			delete(s.active, k)
			t.state = stateEnded
			t.endedAt = now
			ended = append(ended, t)
			t.el.SetAttr(t.attr, t.to)
			continue
		}
		t.el.SetAttr(t.attr, t.interp(t.ease(p)))
	}
	var callbacks []func()
	for _, t := range ended {
		callbacks = append(callbacks, t.onEnd...)
		t.onEnd, t.onInterrupt = nil, nil
	}
	s.mu.Unlock()

	for _, t := range ended {
		s.record(metrics.OutcomeEnded)
		if s.observer != nil {
			s.observer.ObserveTransitionDuration(t.endedAt.Sub(t.start))
		}
	}
	for _, fn := range callbacks {
		fn()
	}
}

// Run ticks the scheduler every interval until ctx is done
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// Transition is a single scheduled attribute animation
type Transition struct {
	s        *Scheduler
	el       *svg.Element
	attr     string
	from, to string
	interp   func(float64) string
	ease     Ease
	duration time.Duration
	start    time.Time
	endedAt  time.Time
	state    state

	onEnd       []func()
	onInterrupt []func()
}

// Empty reports whether the transition had nothing to animate. Empty
// transitions fire no events.
func (t *Transition) Empty() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.state == stateEmpty
}

// Ended reports whether the transition ran to completion
func (t *Transition) Ended() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.state == stateEnded
}

// Interrupted reports whether a later transition superseded this one
func (t *Transition) Interrupted() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.state == stateInterrupted
}

// Target returns the value the transition moves towards
func (t *Transition) Target() string { return t.to }

// OnEnd registers fn to run when the transition completes. If it already
// completed fn runs immediately. fn never runs for empty or interrupted
// transitions.
func (t *Transition) OnEnd(fn func()) *Transition {
	t.s.mu.Lock()
	switch t.state {
	case stateRunning:
		t.onEnd = append(t.onEnd, fn)
		t.s.mu.Unlock()
	case stateEnded:
		t.s.mu.Unlock()
		fn()
	default:
		t.s.mu.Unlock()
	}
	return t
}

// OnInterrupt registers fn to run when a later transition on the same
// attribute supersedes this one
func (t *Transition) OnInterrupt(fn func()) *Transition {
	t.s.mu.Lock()
	switch t.state {
	case stateRunning:
		t.onInterrupt = append(t.onInterrupt, fn)
		t.s.mu.Unlock()
	case stateInterrupted:
		t.s.mu.Unlock()
		fn()
	default:
		t.s.mu.Unlock()
	}
	return t
}
