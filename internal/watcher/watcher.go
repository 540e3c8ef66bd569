// Package watcher reports settled changes to a single file using fsnotify.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file. The parent directory is watched so that
// atomic replace-by-rename saves are seen as well as in-place writes.
type Watcher struct {
	logger *slog.Logger
	opts   Options
	path   string
	fs     *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	existed bool

	events   chan Event
	errors   chan error
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for path. The parent directory must exist; the file itself need not.
func New(logger *slog.Logger, path string, opts Options) (*Watcher, error) {
	opts.setDefaults()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	_, statErr := os.Stat(abs)

	return &Watcher{
		logger:  logger,
		opts:    opts,
		path:    abs,
		fs:      fsw,
		existed: statErr == nil,
		events:  make(chan Event, 16),
		errors:  make(chan error, 4),
		done:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start processes file system events until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			w.schedule()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.sendError(err)
		}
	}
}

// Stop releases the underlying watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

// Events returns the channel of settled events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// schedule restarts the settle timer; only the last change in a burst is reported.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.SettleDelay, w.settle)
}

func (w *Watcher) settle() {
	info, err := os.Stat(w.path)

	w.mu.Lock()
	existed := w.existed
	w.existed = err == nil
	w.mu.Unlock()

	var ev Event
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !existed {
			return
		}
		ev = Event{Type: EventRemoved, Path: w.path}
	case err != nil:
		w.sendError(fmt.Errorf("stat %s: %w", w.path, err))
		return
	default:
		ev = Event{Type: EventModified, Path: w.path, Size: info.Size(), ModTime: info.ModTime()}
		if !existed {
			ev.Type = EventAdded
		}
	}

	w.logger.Debug("watched file settled", "path", w.path, "event", ev.Type.String())

	select {
	case w.events <- ev:
	case <-w.done:
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		w.logger.Warn("dropping watcher error", "path", w.path, "error", err)
	}
}
