package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/recera/graphview/pkg/config"
	"github.com/recera/graphview/pkg/layout"
	"github.com/recera/graphview/pkg/renderer/markup"
	"github.com/recera/graphview/pkg/svg"
	"github.com/recera/graphview/pkg/transition"
	"github.com/recera/graphview/pkg/viewport"
)

// maxFrames bounds the ticks spent on one animated render
const maxFrames = 100000

func newRenderCommand() *cobra.Command {
	var (
		radius     float64
		animate    bool
		framesPath string
		each       bool
		width      int
		height     int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the canvas for a root radius and print the SVG",
		Long: `Applies a root radius, or every frame of a layout file, to a view with a
fixed viewport. Animated frames are stepped on a simulated clock at the
configured frame interval. The resulting SVG markup is written to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				cfg.Viewport.Width = width
			}
			if cmd.Flags().Changed("height") {
				cfg.Viewport.Height = height
			}

			frames := []layout.Frame{{Radius: radius, Animate: animate}}
			if framesPath != "" {
				if frames, err = layout.Load(framesPath); err != nil {
					return err
				}
			} else if err := frames[0].Validate(); err != nil {
				return err
			}

			return renderFrames(cmd.OutOrStdout(), cfg, frames, each)
		},
	}

	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "Radius of the graph's root circle")
	cmd.Flags().BoolVarP(&animate, "animate", "a", false, "Animate the centering transform")
	cmd.Flags().StringVarP(&framesPath, "frames", "f", "", "Layout file with a sequence of frames")
	cmd.Flags().BoolVar(&each, "each", false, "Print the SVG after every animation frame")
	cmd.Flags().IntVar(&width, "width", 0, "Viewport width (overrides config)")
	cmd.Flags().IntVar(&height, "height", 0, "Viewport height (overrides config)")

	return cmd
}

// renderFrames applies frames in order to a fresh view and prints markup
// after each frame, or after each tick when each is set
func renderFrames(w io.Writer, cfg *config.Config, frames []layout.Frame, each bool) error {
	clock := transition.NewManualClock(time.Unix(0, 0))
	sched := transition.NewScheduler(transition.WithClock(clock.Now))
	factory := viewport.NewFactory(cfg.Transition.Duration, &viewport.Options{
		Scheduler: sched,
		Oracle:    viewport.NewStaticOracle(cfg.Viewport.Width, cfg.Viewport.Height),
	})

	canvas := svg.NewDocument().NewRoot("svg")
	view := factory.New(canvas)

	emit := func() error {
		out, err := markup.RenderToString(canvas)
		if err != nil {
			return fmt.Errorf("failed to render markup: %w", err)
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}

	for i, frame := range frames {
		if !frame.Animate {
			view.Render(frame.Radius)
			if err := emit(); err != nil {
				return err
			}
			continue
		}

		c := view.RenderWithTransition(frame.Radius)
		ticks := 0
		for ; sched.Active() > 0; ticks++ {
			if ticks == maxFrames {
				return fmt.Errorf("frame %d: transition did not finish", i)
			}
			sched.Tick(clock.Advance(cfg.Transition.FrameInterval))
			if each {
				if err := emit(); err != nil {
					return err
				}
			}
		}
		if !c.Resolved() {
			return fmt.Errorf("frame %d: transition was interrupted", i)
		}
		if !each || ticks == 0 {
			if err := emit(); err != nil {
				return err
			}
		}
	}
	return nil
}
