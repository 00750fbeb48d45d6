// Package watch re-runs a handler whenever a file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 150 * time.Millisecond

// Handler is called once at start and again after each burst of changes.
type Handler func(ctx context.Context) error

type Options struct {
	// Debounce is how long to wait for more events before calling the
	// handler.
	Debounce time.Duration
	Logger   *slog.Logger
}

// File calls handler for path until ctx is done. The parent directory is
// watched so editors that replace the file on save are seen. Handler errors
// are logged and watching continues.
func File(ctx context.Context, path string, opts Options, handler Handler) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	run := func() {
		if err := handler(ctx); err != nil && ctx.Err() == nil {
			opts.Logger.Error("handler failed", slog.String("path", path), slog.Any("err", err))
		}
	}
	run()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !relevant(event.Op) {
				continue
			}
			opts.Logger.Debug("file changed", slog.String("path", path), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(opts.Debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watcher error", slog.Any("err", err))

		case <-timerC:
			timer, timerC = nil, nil
			run()
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
