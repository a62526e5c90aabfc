// Package ui is the interactive viewport inspector behind graphview inspect.
package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/graphview/pkg/svg"
	"github.com/recera/graphview/pkg/transition"
	"github.com/recera/graphview/pkg/viewport"
)

// resizeStep is how far one key press moves a viewport edge
const resizeStep = 50

// Config holds the inspector settings
type Config struct {
	TransitionDuration time.Duration
	FrameInterval      time.Duration

	// Simulated viewport
	Width  int
	Height int

	// Now drives the transition clock. Defaults to time.Now.
	Now func() time.Time
}

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Render   key.Binding
	Animate  key.Binding
	Wider    key.Binding
	Narrower key.Binding
	Taller   key.Binding
	Shorter  key.Binding
	Quit     key.Binding
}

var DefaultKeyMap = KeyMap{
	Render: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "render radius"),
	),
	Animate: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "toggle animation"),
	),
	Wider: key.NewBinding(
		key.WithKeys("ctrl+right"),
		key.WithHelp("ctrl+→", "wider"),
	),
	Narrower: key.NewBinding(
		key.WithKeys("ctrl+left"),
		key.WithHelp("ctrl+←", "narrower"),
	),
	Taller: key.NewBinding(
		key.WithKeys("ctrl+down"),
		key.WithHelp("ctrl+↓", "taller"),
	),
	Shorter: key.NewBinding(
		key.WithKeys("ctrl+up"),
		key.WithHelp("ctrl+↑", "shorter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

type tickMsg time.Time

// Model represents the inspector state
type Model struct {
	// Window dimensions
	width  int
	height int

	cfg Config

	oracle *viewport.StaticOracle
	sched  *transition.Scheduler
	canvas *svg.Element
	view   *viewport.View

	// UI components
	input    textinput.Model
	progress progress.Model

	animate  bool
	rendered bool
	radius   float64
	ticking  bool

	// current animated render; nil when the last render was immediate
	completion *viewport.Completion
	started    time.Time

	quitting      bool
	statusMessage string
	errorMessage  string
}

// NewModel creates a new inspector with nothing rendered yet
func NewModel(cfg Config) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = transition.DefaultFrameInterval
	}

	input := textinput.New()
	input.Placeholder = "root radius, e.g. 240"
	input.Prompt = "radius › "
	input.CharLimit = 16
	input.Width = 24
	input.Focus()

	oracle := viewport.NewStaticOracle(cfg.Width, cfg.Height)
	sched := transition.NewScheduler(transition.WithClock(cfg.Now))
	factory := viewport.NewFactory(cfg.TransitionDuration, &viewport.Options{
		Scheduler: sched,
		Oracle:    oracle,
	})
	canvas := svg.NewDocument().NewRoot("svg")

	return Model{
		cfg:      cfg,
		oracle:   oracle,
		sched:    sched,
		canvas:   canvas,
		view:     factory.New(canvas),
		input:    input,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case tickMsg:
		m.sched.Tick(m.cfg.Now())
		if m.sched.Active() > 0 {
			return m, m.tick()
		}
		m.ticking = false
		if m.completion != nil && m.completion.Resolved() {
			m.statusMessage = "transition ended"
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, DefaultKeyMap.Animate):
			m.animate = !m.animate
			return m, nil
		case key.Matches(msg, DefaultKeyMap.Render):
			return m, m.submit()
		case key.Matches(msg, DefaultKeyMap.Wider):
			return m, m.resize(resizeStep, 0)
		case key.Matches(msg, DefaultKeyMap.Narrower):
			return m, m.resize(-resizeStep, 0)
		case key.Matches(msg, DefaultKeyMap.Taller):
			return m, m.resize(0, resizeStep)
		case key.Matches(msg, DefaultKeyMap.Shorter):
			return m, m.resize(0, -resizeStep)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit parses the input and renders it
func (m *Model) submit() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	r, err := strconv.ParseFloat(value, 64)
	if err != nil || r < 0 {
		m.errorMessage = fmt.Sprintf("invalid radius %q: need a non-negative number", value)
		return nil
	}
	m.errorMessage = ""
	return m.render(r)
}

func (m *Model) render(r float64) tea.Cmd {
	m.radius = r
	m.rendered = true

	if !m.animate {
		m.view.Render(r)
		m.completion = nil
		m.statusMessage = fmt.Sprintf("rendered radius %g", r)
		return nil
	}

	m.completion = m.view.RenderWithTransition(r)
	m.started = m.cfg.Now()
	if m.completion.Resolved() {
		m.statusMessage = "nothing to animate"
		return nil
	}
	m.statusMessage = fmt.Sprintf("animating to radius %g", r)
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.tick()
}

// resize moves the simulated viewport and re-renders the current radius
// immediately, the way a window resize does
func (m *Model) resize(dw, dh int) tea.Cmd {
	size := m.oracle.Size()
	m.oracle.Resize(max(size.Width()+dw, 0), max(size.Height()+dh, 0))
	if m.rendered {
		m.view.Render(m.radius)
	}
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// transitionProgress is the elapsed share of the current animated render
func (m Model) transitionProgress() float64 {
	if m.completion == nil {
		return 0
	}
	if m.completion.Resolved() {
		return 1
	}
	if m.cfg.TransitionDuration <= 0 {
		return 0
	}
	p := float64(m.cfg.Now().Sub(m.started)) / float64(m.cfg.TransitionDuration)
	return min(max(p, 0), 1)
}
