package viewport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/graphview/pkg/metrics"
	"github.com/recera/graphview/pkg/svg"
	"github.com/recera/graphview/pkg/transition"
)

const testDuration = 300 * time.Millisecond

type harness struct {
	doc    *svg.Document
	canvas *svg.Element
	oracle *StaticOracle
	clock  *transition.ManualClock
	sched  *transition.Scheduler
	view   *View
	reg    *metrics.Registry
}

func newHarness(t *testing.T, width, height int) *harness {
	t.Helper()
	h := &harness{
		doc:    svg.NewDocument(),
		oracle: NewStaticOracle(width, height),
		clock:  transition.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		reg:    metrics.NewRegistry(),
	}
	h.sched = transition.NewScheduler(transition.WithClock(h.clock.Now))
	h.canvas = h.doc.NewRoot("svg")
	f := NewFactory(testDuration, &Options{Scheduler: h.sched, Oracle: h.oracle, Metrics: h.reg})
	h.view = f.New(h.canvas)
	return h
}

func (h *harness) attr(el *svg.Element, key string) string {
	v, _ := el.Attr(key)
	return v
}

func (h *harness) finishTransitions() {
	for i := 0; i < 1000 && h.sched.Active() > 0; i++ {
		h.sched.Tick(h.clock.Advance(transition.DefaultFrameInterval))
	}
}

func TestNew_CreatesGroupsInPaintOrder(t *testing.T) {
	h := newHarness(t, 800, 600)

	kids := h.canvas.Children()
	require.Len(t, kids, 1)
	translater := kids[0]
	assert.Equal(t, "g", translater.Tag())
	assert.Equal(t, TranslaterID, h.attr(translater, "id"))
	assert.Same(t, translater, h.view.Translater())

	groups := translater.Children()
	require.Len(t, groups, 2)
	assert.Same(t, h.view.NodesGroup(), groups[0])
	assert.Same(t, h.view.DependenciesGroup(), groups[1])

	w, hh := h.view.Size()
	assert.Zero(t, w)
	assert.Zero(t, hh)
}

func TestRender_ViewportLargerThanGraph(t *testing.T) {
	h := newHarness(t, 800, 600)

	h.view.Render(50)

	assert.Equal(t, "800", h.attr(h.canvas, "width"))
	assert.Equal(t, "600", h.attr(h.canvas, "height"))
	assert.Equal(t, "translate(350,250)", h.attr(h.view.Translater(), "transform"))
}

func TestRender_GraphLargerThanViewport(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(50)

	h.view.Render(500)

	assert.Equal(t, "1004", h.attr(h.canvas, "width"))
	assert.Equal(t, "1004", h.attr(h.canvas, "height"))
	assert.Equal(t, "translate(2,2)", h.attr(h.view.Translater(), "transform"))
}

func TestRender_FractionalRadius(t *testing.T) {
	h := newHarness(t, 0, 0)

	h.view.Render(10.75)

	// 2*10.75+4 = 25.5 truncates to 25
	assert.Equal(t, "25", h.attr(h.canvas, "width"))
	assert.Equal(t, "translate(1.75,1.75)", h.attr(h.view.Translater(), "transform"))
}

func TestRender_OddCanvasKeepsHalfPixelOffset(t *testing.T) {
	h := newHarness(t, 801, 601)

	h.view.Render(50)

	assert.Equal(t, "translate(350.5,250.5)", h.attr(h.view.Translater(), "transform"))
}

func TestRender_UsesLargerOfClientAndWindowSize(t *testing.T) {
	h := newHarness(t, 0, 0)
	h.oracle.Set(Size{ClientWidth: 700, ClientHeight: 650, InnerWidth: 900, InnerHeight: 500})

	h.view.Render(10)

	assert.Equal(t, "900", h.attr(h.canvas, "width"))
	assert.Equal(t, "650", h.attr(h.canvas, "height"))
}

func TestRender_Idempotent(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(120)

	var patches []svg.Patch
	h.doc.Subscribe(func(p svg.Patch) { patches = append(patches, p) })

	h.view.Render(120)

	for _, p := range patches {
		assert.NotEqual(t, h.canvas.ID(), p.NodeID, "canvas must not be written: %v", p)
	}
	assert.Equal(t, "800", h.attr(h.canvas, "width"))
	assert.Equal(t, "600", h.attr(h.canvas, "height"))
	assert.Equal(t, "translate(280,180)", h.attr(h.view.Translater(), "transform"))
}

func TestRender_ResizesOnlyChangedAxis(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(50)

	var keys []string
	h.doc.Subscribe(func(p svg.Patch) {
		if p.NodeID == h.canvas.ID() {
			keys = append(keys, p.Key)
		}
	})

	// R = 704 exceeds the height only
	h.view.Render(350)

	assert.Equal(t, []string{"height"}, keys)
	assert.Equal(t, "800", h.attr(h.canvas, "width"))
	assert.Equal(t, "704", h.attr(h.canvas, "height"))
}

func TestRender_ShrinksBackToViewport(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(500)
	h.view.Render(50)

	assert.Equal(t, "800", h.attr(h.canvas, "width"))
	assert.Equal(t, "600", h.attr(h.canvas, "height"))
}

func TestRenderWithTransition_ResizesSynchronouslyAndAnimates(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(500)

	c := h.view.RenderWithTransition(50)

	// Resize is never animated
	assert.Equal(t, "800", h.attr(h.canvas, "width"))
	assert.Equal(t, "600", h.attr(h.canvas, "height"))
	assert.False(t, c.Resolved())
	assert.Equal(t, "translate(2,2)", h.attr(h.view.Translater(), "transform"))

	h.sched.Tick(h.clock.Advance(testDuration / 2))
	assert.False(t, c.Resolved())
	assert.NotEqual(t, "translate(2,2)", h.attr(h.view.Translater(), "transform"))

	h.finishTransitions()
	assert.True(t, c.Resolved())
	assert.Equal(t, "translate(350,250)", h.attr(h.view.Translater(), "transform"))
}

func TestRenderWithTransition_NoChangeResolvesImmediately(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(50)

	c := h.view.RenderWithTransition(50)

	assert.True(t, c.Resolved())
	assert.Zero(t, h.sched.Active())
}

func TestRenderWithTransition_ZeroDurationResolvesImmediately(t *testing.T) {
	doc := svg.NewDocument()
	canvas := doc.NewRoot("svg")
	sched := transition.NewScheduler()
	view := NewFactory(0, &Options{Scheduler: sched, Oracle: NewStaticOracle(800, 600)}).New(canvas)

	c := view.RenderWithTransition(50)

	assert.True(t, c.Resolved())
	v, _ := view.Translater().Attr("transform")
	assert.Equal(t, "translate(350,250)", v)
}

func TestRenderWithTransition_SupersededNeverResolves(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(50)

	first := h.view.RenderWithTransition(100)
	h.sched.Tick(h.clock.Advance(testDuration / 3))
	second := h.view.RenderWithTransition(200)
	h.finishTransitions()

	assert.False(t, first.Resolved())
	assert.True(t, second.Resolved())
	select {
	case <-first.Superseded():
	default:
		t.Error("first completion should be superseded")
	}
	assert.Equal(t, "translate(200,100)", h.attr(h.view.Translater(), "transform"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, first.Wait(ctx), context.DeadlineExceeded)
	assert.NoError(t, second.Wait(context.Background()))
}

func TestRender_RecordsMetrics(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(50)
	h.view.Render(50)
	h.view.RenderWithTransition(60)

	renders := testCounter(t, h.reg.RendersTotal.WithLabelValues(metrics.ModeImmediate))
	assert.Equal(t, 2.0, renders)
	widths := testCounter(t, h.reg.CanvasResizesTotal.WithLabelValues("width"))
	assert.Equal(t, 1.0, widths)
}

func TestFactory_Defaults(t *testing.T) {
	f := NewFactory(time.Second, nil)
	require.NotNil(t, f.Scheduler())
	assert.Equal(t, time.Second, f.TransitionDuration())

	view := f.New(svg.NewDocument().NewRoot("svg"))
	view.Render(10)
	w, h := view.Size()
	assert.Equal(t, 24, w)
	assert.Equal(t, 24, h)
}

func TestRender_StopsRunningAnimation(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(500)

	c := h.view.RenderWithTransition(50)
	h.sched.Tick(h.clock.Advance(testDuration / 4))
	h.view.Render(100)

	assert.Equal(t, "translate(300,200)", h.attr(h.view.Translater(), "transform"))
	assert.Zero(t, h.sched.Active())

	h.finishTransitions()
	h.sched.Tick(h.clock.Advance(testDuration))
	assert.Equal(t, "translate(300,200)", h.attr(h.view.Translater(), "transform"))
	assert.False(t, c.Resolved())
	select {
	case <-c.Superseded():
	default:
		t.Error("Completion of the stopped animation should be superseded")
	}
}

func TestRender_ViewportChangeDuringAnimationRecenters(t *testing.T) {
	h := newHarness(t, 800, 600)
	h.view.Render(50)

	h.view.RenderWithTransition(100)
	h.sched.Tick(h.clock.Advance(testDuration / 3))
	h.oracle.Resize(1000, 900)
	h.view.Render(50)
	h.finishTransitions()
	h.sched.Tick(h.clock.Advance(testDuration))

	assert.Equal(t, "1000", h.attr(h.canvas, "width"))
	assert.Equal(t, "900", h.attr(h.canvas, "height"))
	assert.Equal(t, "translate(450,400)", h.attr(h.view.Translater(), "transform"))
}

func TestRenderWithTransition_FirstRenderAnimatesFromOrigin(t *testing.T) {
	h := newHarness(t, 800, 600)

	c := h.view.RenderWithTransition(50)
	require.False(t, c.Resolved())

	h.sched.Tick(h.clock.Advance(testDuration / 2))
	assert.Equal(t, "translate(175,125)", h.attr(h.view.Translater(), "transform"))

	h.finishTransitions()
	assert.True(t, c.Resolved())
	assert.Equal(t, "translate(350,250)", h.attr(h.view.Translater(), "transform"))
}
