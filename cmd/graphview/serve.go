package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/recera/graphview/pkg/config"
	"github.com/recera/graphview/pkg/debug"
	"github.com/recera/graphview/pkg/layout"
	"github.com/recera/graphview/pkg/live"
	"github.com/recera/graphview/pkg/metrics"
	"github.com/recera/graphview/pkg/viewport"
)

func newServeCommand() *cobra.Command {
	var (
		port      int
		host      string
		watchPath string
		radius    float64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live viewer",
		Long: `Serves a page whose graph canvas is sized and centered by the server.
Layout frames arrive via POST /layout or, with --watch, from a layout file
that is re-read whenever it changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// CLI takes precedence
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, watchPath, layout.Frame{Radius: radius})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVarP(&host, "host", "H", "localhost", "Host to bind to")
	cmd.Flags().StringVarP(&watchPath, "watch", "w", "", "Layout file to watch; its last frame is broadcast on change")
	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "Initial root radius")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, watchPath string, initial layout.Frame) error {
	var reg *metrics.Registry
	if cfg.Server.Metrics {
		reg = metrics.NewRegistry()
	}

	if watchPath != "" {
		frames, err := layout.Load(watchPath)
		if err != nil {
			return err
		}
		initial = frames[len(frames)-1]
	}

	srv := live.NewServer(live.Options{
		TransitionDuration: cfg.Transition.Duration,
		FrameInterval:      cfg.Transition.FrameInterval,
		Viewport:           viewport.Size{ClientWidth: cfg.Viewport.Width, ClientHeight: cfg.Viewport.Height},
		Initial:            initial,
		Metrics:            reg,
	})
	defer srv.Close()

	if watchPath != "" {
		w := layout.NewWatcher(watchPath, func(frames []layout.Frame) {
			srv.Broadcast(frames[len(frames)-1])
		})
		go func() {
			if err := w.Run(ctx); err != nil {
				debug.Logger().Error("layout watcher stopped", "error", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		debug.Logger().Info("live viewer listening", "addr", "http://"+httpServer.Addr, "metrics", cfg.Server.Metrics)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	debug.Logger().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Close()
	return httpServer.Shutdown(shutdownCtx)
}
