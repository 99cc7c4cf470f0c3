package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatchFile reports changes to path on the returned channel until ctx is done.
// The parent directory is watched so that editors replacing the file by rename are
// seen too. Bursts of events within debounce collapse into one.
func WatchFile(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger) (<-chan string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer w.Close()

		var timer <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
				timer = time.After(debounce)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", "error", err)
			case <-timer:
				timer = nil
				select {
				case out <- path:
				default:
				}
			}
		}
	}()
	return out, nil
}

// RunWatch calls render once and then after every change to path, until ctx is done.
// Render failures are logged and the watch goes on, so a broken document can be fixed
// in place.
func RunWatch(ctx context.Context, path string, render func(context.Context) error, logger *slog.Logger) error {
	changes, err := WatchFile(ctx, path, DefaultDebounce, logger)
	if err != nil {
		return err
	}
	for {
		if err := render(ctx); err != nil {
			logger.Error("render failed", "path", path, "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("change detected, reloading", "path", path)
		}
	}
}
