// Package watch reports content changes of a single file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls back when the contents of Path change. Bursts of events are
// debounced and saves that leave the bytes unchanged are ignored.
type Watcher struct {
	Path     string
	Debounce time.Duration // zero means DefaultDebounce
	Logger   *slog.Logger
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}

// Run watches until ctx is done, calling onChange at most once at a time.
// Errors returned by onChange are logged and watching continues. The
// directory is watched rather than the file so editors that save by rename
// are seen.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	log := w.logger()
	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.Path, err)
	}
	last, err := FileHash(abs)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.Path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	deb := NewDebouncer(w.Debounce)
	defer deb.Cancel()
	log.Debug("watching", "path", abs, "debounce", deb.Duration())
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			deb.Trigger(func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			sum, err := FileHash(abs)
			if err != nil {
				// Mid-rename; the Create that follows triggers again.
				log.Debug("file not readable", "path", abs, "err", err)
				continue
			}
			if sum == last {
				log.Debug("content unchanged", "path", abs)
				continue
			}
			last = sum
			if err := onChange(ctx); err != nil {
				log.Error("refresh failed", "path", w.Path, "err", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}
