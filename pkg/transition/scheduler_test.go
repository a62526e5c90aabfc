package transition

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/recera/graphview/pkg/metrics"
	"github.com/recera/graphview/pkg/svg"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestElement(t *testing.T) *svg.Element {
	t.Helper()
	doc := svg.NewDocument()
	el := doc.NewRoot("g")
	el.SetAttr("transform", "translate(0,0)")
	return el
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *recordingObserver) RecordTransition(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[outcome]++
}

func (o *recordingObserver) ObserveTransitionDuration(time.Duration) {}

func (o *recordingObserver) count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

func TestScheduler_RunsToEnd(t *testing.T) {
	clock := NewManualClock(epoch)
	sched := NewScheduler(WithClock(clock.Now))
	el := newTestElement(t)

	ended := 0
	tr := sched.Select(el).Duration(100 * time.Millisecond).Ease(EaseLinear).
		Attr("transform", "translate(100,50)").
		OnEnd(func() { ended++ })

	if tr.Empty() {
		t.Fatal("Transition should not be empty")
	}
	if sched.Active() != 1 {
		t.Fatalf("Expected 1 active transition, got %d", sched.Active())
	}

	sched.Tick(clock.Advance(50 * time.Millisecond))
	if v, _ := el.Attr("transform"); v != "translate(50,25)" {
		t.Errorf("Midpoint transform = %q, want translate(50,25)", v)
	}
	if ended != 0 {
		t.Error("End fired before completion")
	}

	sched.Tick(clock.Advance(60 * time.Millisecond))
	if v, _ := el.Attr("transform"); v != "translate(100,50)" {
		t.Errorf("Final transform = %q, want translate(100,50)", v)
	}
	if ended != 1 {
		t.Errorf("Expected end to fire once, got %d", ended)
	}
	if !tr.Ended() {
		t.Error("Transition should report ended")
	}
	if sched.Active() != 0 {
		t.Errorf("Expected no active transitions, got %d", sched.Active())
	}
}

func TestScheduler_EmptyWhenTargetEqualsCurrent(t *testing.T) {
	sched := NewScheduler(WithClock(NewManualClock(epoch).Now))
	el := newTestElement(t)

	writes := 0
	el.Document().Subscribe(func(svg.Patch) { writes++ })

	ended := false
	tr := sched.Select(el).Duration(time.Second).Attr("transform", "translate(0,0)")
	tr.OnEnd(func() { ended = true })

	if !tr.Empty() {
		t.Error("Transition to the current value should be empty")
	}
	if sched.Active() != 0 {
		t.Error("Empty transition should not be active")
	}
	if writes != 0 {
		t.Errorf("Expected no writes, got %d", writes)
	}
	sched.Tick(epoch.Add(2 * time.Second))
	if ended {
		t.Error("Empty transition must not fire end")
	}
}

func TestScheduler_ZeroDurationAppliesImmediately(t *testing.T) {
	sched := NewScheduler()
	el := newTestElement(t)

	tr := sched.Select(el).Duration(0).Attr("transform", "translate(5,5)")

	if !tr.Empty() {
		t.Error("Zero duration transition should be empty")
	}
	if v, _ := el.Attr("transform"); v != "translate(5,5)" {
		t.Errorf("transform = %q, want translate(5,5)", v)
	}
}

func TestScheduler_LastCallWins(t *testing.T) {
	clock := NewManualClock(epoch)
	obs := &recordingObserver{}
	sched := NewScheduler(WithClock(clock.Now), WithObserver(obs))
	el := newTestElement(t)

	firstEnded, firstInterrupted := false, false
	first := sched.Select(el).Duration(100*time.Millisecond).Attr("transform", "translate(100,100)")
	first.OnEnd(func() { firstEnded = true })
	first.OnInterrupt(func() { firstInterrupted = true })

	sched.Tick(clock.Advance(50 * time.Millisecond))

	secondEnded := false
	second := sched.Select(el).Duration(100*time.Millisecond).Attr("transform", "translate(10,10)")
	second.OnEnd(func() { secondEnded = true })

	if !first.Interrupted() || !firstInterrupted {
		t.Error("First transition should be interrupted")
	}
	if sched.Active() != 1 {
		t.Errorf("Expected 1 active transition, got %d", sched.Active())
	}

	sched.Tick(clock.Advance(200 * time.Millisecond))

	if firstEnded {
		t.Error("Interrupted transition must never fire end")
	}
	if !secondEnded {
		t.Error("Second transition should have ended")
	}
	if v, _ := el.Attr("transform"); v != "translate(10,10)" {
		t.Errorf("transform = %q, want translate(10,10)", v)
	}
	if obs.count(metrics.OutcomeInterrupted) != 1 || obs.count(metrics.OutcomeEnded) != 1 || obs.count(metrics.OutcomeStarted) != 2 {
		t.Errorf("Unexpected outcomes: %v", obs.outcomes)
	}
}

func TestScheduler_OnEndAfterCompletionRunsImmediately(t *testing.T) {
	clock := NewManualClock(epoch)
	sched := NewScheduler(WithClock(clock.Now))
	el := newTestElement(t)

	tr := sched.Select(el).Duration(10*time.Millisecond).Attr("transform", "translate(1,1)")
	sched.Tick(clock.Advance(time.Second))

	called := false
	tr.OnEnd(func() { called = true })
	if !called {
		t.Error("OnEnd after completion should run immediately")
	}
}

func TestScheduler_IndependentAttributes(t *testing.T) {
	clock := NewManualClock(epoch)
	sched := NewScheduler(WithClock(clock.Now))
	el := newTestElement(t)
	el.SetAttr("opacity", "0")

	a := sched.Select(el).Duration(time.Second).Attr("transform", "translate(1,1)")
	b := sched.Select(el).Duration(time.Second).Attr("opacity", "1")

	if a.Interrupted() || b.Interrupted() {
		t.Error("Transitions on different attributes must not interrupt each other")
	}
	if sched.Active() != 2 {
		t.Errorf("Expected 2 active transitions, got %d", sched.Active())
	}
}

func TestScheduler_Run(t *testing.T) {
	sched := NewScheduler()
	el := newTestElement(t)

	done := make(chan struct{})
	sched.Select(el).Duration(30*time.Millisecond).Attr("transform", "translate(9,9)").
		OnEnd(func() { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx, 5*time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Transition did not end while scheduler was running")
	}
	if v, _ := el.Attr("transform"); v != "translate(9,9)" {
		t.Errorf("transform = %q, want translate(9,9)", v)
	}
}

func TestScheduler_Interrupt(t *testing.T) {
	clock := NewManualClock(epoch)
	obs := &recordingObserver{}
	sched := NewScheduler(WithClock(clock.Now), WithObserver(obs))
	el := newTestElement(t)

	ended, interrupted := false, false
	sched.Select(el).Duration(100*time.Millisecond).Ease(EaseLinear).
		Attr("transform", "translate(100,100)").
		OnEnd(func() { ended = true }).
		OnInterrupt(func() { interrupted = true })
	sched.Tick(clock.Advance(50 * time.Millisecond))

	if !sched.Interrupt(el, "transform") {
		t.Fatal("Interrupt should report a running transition")
	}
	if sched.Interrupt(el, "transform") {
		t.Error("Second Interrupt should find nothing running")
	}
	el.SetAttr("transform", "translate(7,7)")
	sched.Tick(clock.Advance(time.Second))

	if v, _ := el.Attr("transform"); v != "translate(7,7)" {
		t.Errorf("transform = %q, want translate(7,7)", v)
	}
	if ended || !interrupted {
		t.Errorf("ended=%v interrupted=%v, want false/true", ended, interrupted)
	}
	if obs.count(metrics.OutcomeInterrupted) != 1 {
		t.Errorf("Expected 1 interrupted outcome, got %d", obs.count(metrics.OutcomeInterrupted))
	}
}

func TestScheduler_UnsetTransformAnimatesFromIdentity(t *testing.T) {
	clock := NewManualClock(epoch)
	sched := NewScheduler(WithClock(clock.Now))
	el := svg.NewDocument().NewRoot("g")

	tr := sched.Select(el).Duration(100*time.Millisecond).Ease(EaseLinear).
		Attr("transform", "translate(100,40)")
	if tr.Empty() {
		t.Fatal("Transition from an unset transform should not be empty")
	}

	sched.Tick(clock.Advance(25 * time.Millisecond))
	if v, _ := el.Attr("transform"); v != "translate(25,10)" {
		t.Errorf("transform = %q, want translate(25,10)", v)
	}
}
