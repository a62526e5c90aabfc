package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/graphview/pkg/config"
	"github.com/recera/graphview/pkg/debug"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// configPath is set by the global --config flag
var configPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "graphview",
		Short: "graphview - sizes and centers dependency graph canvases",
		Long: `graphview renders the viewport of a circle-packed dependency graph:
it grows the SVG canvas to fit the graph's root circle, keeps the circle
centered, and animates the centering when the layout changes.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.FileName, "Path to the configuration file")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newInspectCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configured file and installs a stderr logger at
// the configured level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	debug.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: debug.ParseLevel(cfg.Log.Level),
	})))
	return cfg, nil
}
