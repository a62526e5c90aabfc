package viewport

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/recera/graphview/pkg/svg"
)

func testCounter(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func canvasSize(el *svg.Element) (int, int) {
	ws, _ := el.Attr("width")
	hs, _ := el.Attr("height")
	w, _ := strconv.Atoi(ws)
	h, _ := strconv.Atoi(hs)
	return w, h
}

// TestViewInvariants checks sizing and centering for arbitrary radii and
// viewports
func TestViewInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("canvas covers viewport and root circle", prop.ForAll(
		func(radius float64, vw, vh int) bool {
			h := newHarness(t, vw, vh)
			h.view.Render(radius)

			w, ht := canvasSize(h.canvas)
			required := int(2*radius + 4)
			return w >= max(vw, required) && ht >= max(vh, required)
		},
		gen.Float64Range(0, 5000),
		gen.IntRange(0, 4000),
		gen.IntRange(0, 4000),
	))

	properties.Property("transform centers root circle", prop.ForAll(
		func(radius float64, vw, vh int) bool {
			h := newHarness(t, vw, vh)
			h.view.Render(radius)

			w, ht := canvasSize(h.canvas)
			want := Translate(float64(w)/2-radius, float64(ht)/2-radius)
			got, _ := h.view.Translater().Attr("transform")
			return got == want
		},
		gen.Float64Range(0, 5000),
		gen.IntRange(0, 4000),
		gen.IntRange(0, 4000),
	))

	properties.Property("second render is a no-op", prop.ForAll(
		func(radius float64, vw, vh int) bool {
			h := newHarness(t, vw, vh)
			h.view.Render(radius)
			before, _ := h.view.Translater().Attr("transform")

			canvasWrites := 0
			h.doc.Subscribe(func(p svg.Patch) {
				if p.NodeID == h.canvas.ID() {
					canvasWrites++
				}
			})
			h.view.Render(radius)
			after, _ := h.view.Translater().Attr("transform")

			return canvasWrites == 0 && before == after
		},
		gen.Float64Range(0, 5000),
		gen.IntRange(0, 4000),
		gen.IntRange(0, 4000),
	))

	properties.Property("animated render to current target resolves at once", prop.ForAll(
		func(radius float64, vw, vh int) bool {
			h := newHarness(t, vw, vh)
			h.view.Render(radius)
			return h.view.RenderWithTransition(radius).Resolved()
		},
		gen.Float64Range(0, 5000),
		gen.IntRange(0, 4000),
		gen.IntRange(0, 4000),
	))

	properties.Property("animated render ends centered", prop.ForAll(
		func(from, to float64, vw, vh int) bool {
			h := newHarness(t, vw, vh)
			h.view.Render(from)
			c := h.view.RenderWithTransition(to)
			h.finishTransitions()

			w, ht := canvasSize(h.canvas)
			got, _ := h.view.Translater().Attr("transform")
			return c.Resolved() && got == Translate(float64(w)/2-to, float64(ht)/2-to)
		},
		gen.Float64Range(0, 3000),
		gen.Float64Range(0, 3000),
		gen.IntRange(0, 3000),
		gen.IntRange(0, 3000),
	))

	properties.TestingRun(t)
}
