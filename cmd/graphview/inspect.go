package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/graphview/cmd/graphview/internal/ui"
	"github.com/recera/graphview/pkg/debug"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Interactively explore canvas sizing and centering",
		Long: `Opens a terminal UI over a simulated viewport. Type a root radius and
press enter to render it; toggle animation to watch the centering transition,
and resize the viewport to see when the canvas grows or shrinks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// log lines would tear the alt screen
			debug.SetLogger(nil)

			model := ui.NewModel(ui.Config{
				TransitionDuration: cfg.Transition.Duration,
				FrameInterval:      cfg.Transition.FrameInterval,
				Width:              cfg.Viewport.Width,
				Height:             cfg.Viewport.Height,
			})
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspector failed: %w", err)
			}
			return nil
		},
	}
	return cmd
}
