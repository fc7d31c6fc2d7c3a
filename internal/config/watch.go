package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/charlimit/internal/logging"
)

// DefaultDebounce is how long Watch waits for a burst of file events to
// settle before reloading.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	logger   logging.Logger
	load     func(path string) (Config, error)
}

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithWatchLogger sets the logger used for watcher errors.
func WithWatchLogger(l logging.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logging.OrNop(l)
	}
}

// WithLoader replaces Load as the function used to re-read the file.
func WithLoader(load func(path string) (Config, error)) WatchOption {
	return func(c *watchConfig) {
		if load != nil {
			c.load = load
		}
	}
}

// Watch calls fn with the reloaded configuration each time the file at path
// is written, created or replaced, until ctx is done. Load errors are passed
// to fn rather than stopping the watch.
//
// The containing directory is watched so that editors that save by
// renaming a temporary file are seen.
func Watch(ctx context.Context, path string, fn func(Config, error), opts ...WatchOption) error {
	cfg := watchConfig{
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		load:     Load,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !relevant(ev.Op) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				timer.Reset(cfg.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fn(cfg.load(path))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cfg.logger.Warn("config watcher error", "path", abs, "error", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
