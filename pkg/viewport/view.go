// Package viewport sizes the graph canvas and keeps the graph's root circle
// centered in it, optionally animating the centering transform.
package viewport

import (
	"strconv"
	"time"

	"github.com/recera/graphview/pkg/debug"
	"github.com/recera/graphview/pkg/metrics"
	"github.com/recera/graphview/pkg/svg"
	"github.com/recera/graphview/pkg/transition"
)

// TranslaterID is the id attribute of the group holding all graph content
const TranslaterID = "translater"

// margin is added to the root diameter when computing the required size
const margin = 4

// Options configures the collaborators shared by every view of a Factory
type Options struct {
	// Scheduler animates the transform. Defaults to a new scheduler on the
	// wall clock; the caller must tick it.
	Scheduler *transition.Scheduler

	// Oracle reports the viewport size. Defaults to a 0x0 StaticOracle.
	Oracle Oracle

	// Metrics is optional
	Metrics *metrics.Registry
}

func (o *Options) withDefaults() Options {
	var d Options
	if o != nil {
		d = *o
	}
	if d.Scheduler == nil {
		d.Scheduler = transition.NewScheduler()
	}
	if d.Oracle == nil {
		d.Oracle = NewStaticOracle(0, 0)
	}
	return d
}

// Factory builds views that share one transition duration
type Factory struct {
	duration time.Duration
	opts     Options
}

// NewFactory fixes the transition duration for every view it creates
func NewFactory(transitionDuration time.Duration, opts *Options) *Factory {
	return &Factory{
		duration: transitionDuration,
		opts:     opts.withDefaults(),
	}
}

// TransitionDuration returns the duration applied to animated renders
func (f *Factory) TransitionDuration() time.Duration { return f.duration }

// Scheduler returns the scheduler animating the views' transforms
func (f *Factory) Scheduler() *transition.Scheduler { return f.opts.Scheduler }

// View owns the sizing of one canvas and the transform of its translation
// group. A View is not safe for concurrent use; drive it from a single
// render loop.
type View struct {
	f *Factory

	svg          *svg.Element
	translater   *svg.Element
	nodes        *svg.Element
	dependencies *svg.Element

	width  int
	height int
}

// New creates the translation group and its nodes and dependencies groups
// inside canvas. Dependencies are appended after nodes so they paint above.
func (f *Factory) New(canvas *svg.Element) *View {
	translater := canvas.Append("g")
	translater.SetAttr("id", TranslaterID)

	return &View{
		f:            f,
		svg:          canvas,
		translater:   translater,
		nodes:        translater.Append("g"),
		dependencies: translater.Append("g"),
	}
}

// Canvas returns the svg element the view sizes
func (v *View) Canvas() *svg.Element { return v.svg }

// NodesGroup is the container node renderers populate
func (v *View) NodesGroup() *svg.Element { return v.nodes }

// DependenciesGroup is the container dependency renderers populate
func (v *View) DependenciesGroup() *svg.Element { return v.dependencies }

// Translater returns the group whose transform centers the graph
func (v *View) Translater() *svg.Element { return v.translater }

// Size returns the tracked canvas size
func (v *View) Size() (width, height int) { return v.width, v.height }

// Render resizes the canvas if necessary and centers a circle of rootRadius
// at once, stopping any running animation of the transform. rootRadius must
// not be negative.
func (v *View) Render(rootRadius float64) {
	v.f.opts.Metrics.RecordRender(metrics.ModeImmediate)
	v.renderSizeIfNecessary(rootRadius)
	v.f.opts.Scheduler.Interrupt(v.translater, "transform")
	v.translater.SetAttr("transform", v.position(rootRadius))
}

// RenderWithTransition resizes the canvas immediately and animates the
// centering transform. The returned completion resolves when the animation
// ends, or is already resolved when there is nothing to animate.
//
// Calling it again, or calling Render, before the completion resolves
// supersedes the running animation: the earlier completion never resolves
// and its Superseded channel closes.
func (v *View) RenderWithTransition(rootRadius float64) *Completion {
	v.f.opts.Metrics.RecordRender(metrics.ModeAnimated)
	v.renderSizeIfNecessary(rootRadius)

	t := v.f.opts.Scheduler.Select(v.translater).
		Duration(v.f.duration).
		Attr("transform", v.position(rootRadius))
	return completionOnEnd(t)
}

func completionOnEnd(t *transition.Transition) *Completion {
	if t.Empty() {
		return resolvedCompletion()
	}
	c := newCompletion()
	t.OnEnd(c.resolve)
	t.OnInterrupt(c.supersede)
	return c
}

func (v *View) renderSizeIfNecessary(rootRadius float64) {
	size := v.f.opts.Oracle.Size()
	windowWidth := size.Width()
	windowHeight := size.Height()

	requiredSize := int(2*rootRadius + margin)
	expandedSize := int(2*rootRadius + margin)
	minWidth := max(windowWidth, requiredSize)
	maxWidth := max(windowWidth, expandedSize)
	minHeight := max(windowHeight, requiredSize)
	maxHeight := max(windowHeight, expandedSize)

	if minWidth > v.width || maxWidth < v.width {
		v.width = max(expandedSize, windowWidth)
		v.svg.SetAttr("width", strconv.Itoa(v.width))
		v.f.opts.Metrics.RecordResize("width")
		debug.Logger().Debug("canvas resized", "axis", "width", "size", v.width, "rootRadius", rootRadius)
	}

	if minHeight > v.height || maxHeight < v.height {
		v.height = max(expandedSize, windowHeight)
		v.svg.SetAttr("height", strconv.Itoa(v.height))
		v.f.opts.Metrics.RecordResize("height")
		debug.Logger().Debug("canvas resized", "axis", "height", "size", v.height, "rootRadius", rootRadius)
	}
}

// position centers the root circle using the size written on the canvas
func (v *View) position(rootRadius float64) string {
	x := float64(v.canvasInt("width"))/2 - rootRadius
	y := float64(v.canvasInt("height"))/2 - rootRadius
	return Translate(x, y)
}

func (v *View) canvasInt(attr string) int {
	s, _ := v.svg.Attr(attr)
	n, _ := strconv.Atoi(s)
	return n
}

// Translate formats an SVG translate transform with the shortest decimal
// form of each offset
func Translate(x, y float64) string {
	return "translate(" + strconv.FormatFloat(x, 'f', -1, 64) + "," + strconv.FormatFloat(y, 'f', -1, 64) + ")"
}
