package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"fromremote/internal/logger"
)

// Watcher reruns a callback when Go sources in a set of directories change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	// ignore is the generated file name; writing it must not retrigger.
	ignore string

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches dirs. Changes to files named ignore are skipped.
func NewWatcher(dirs []string, debounce time.Duration, ignore string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}

	for _, dir := range dirs {
		err := fw.Add(dir)
		if err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "watching %s", dir)
		}
	}

	return &Watcher{watcher: fw, debounce: debounce, ignore: ignore}, nil
}

// Relevant returns true if ev should trigger a run.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(ev.Name)

	return strings.HasSuffix(base, ".go") && base != w.ignore
}

// Run blocks until ctx is done, calling fn once per burst of relevant
// changes. Calls never overlap.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context)) error {
	defer w.watcher.Close()

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.Relevant(ev) {
				continue
			}

			logger.Logger.Debugw("source changed", "file", ev.Name, "op", ev.Op.String())
			w.schedule(fire)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.Logger.Warnw("watcher error", "error", err)

		case <-fire:
			fn(ctx)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(fire chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}
