package layout

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/recera/graphview/pkg/debug"
)

// DefaultDebounce collapses bursts of editor writes into one reload
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a layout file whenever it changes
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func([]Frame)
}

// NewWatcher creates a watcher for path that calls onChange with every
// successfully parsed version of the file
func NewWatcher(path string, onChange func([]Frame)) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		onChange: onChange,
	}
}

// SetDebounce changes the quiet period before a reload
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is done. The containing directory is watched so
// that editors replacing the file are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending = true
			debounce.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Logger().Warn("layout watcher error", "error", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	frames, err := Load(w.path)
	if err != nil {
		debug.Logger().Warn("layout reload failed", "path", w.path, "error", err)
		return
	}
	debug.Logger().Info("layout reloaded", "path", w.path, "frames", len(frames))
	w.onChange(frames)
}
