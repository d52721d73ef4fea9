// Package watcher watches one directory with fsnotify and hands each newly created file to a callback.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultSettle = 200 * time.Millisecond
	readyBuffer   = 64
)

// ErrStopped is returned by Start on a watcher that has already been stopped.
var ErrStopped = errors.New("watcher stopped")

// Watcher observes a single directory (non-recursive) for file creation.
// The callback runs on the watcher's own goroutine, one file at a time.
type Watcher struct {
	dir        string
	extensions []string
	onCreate   func(path string)
	settle     time.Duration
	watcher    *fsnotify.Watcher
	mu         sync.Mutex
	pending    map[string]*time.Timer
	ready      chan string
	done       chan struct{}
	started    bool
	stopped    bool
	stopOnce   sync.Once
	logger     *zap.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output (events, settled files, errors).
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithSettleDelay sets how long a new file must go without further writes before the
// callback runs. Zero hands the file over on its create event.
func WithSettleDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.settle = d
		}
	}
}

// NewWatcher creates a watcher for dir. onCreate is called with the path of every new regular
// file whose extension is in extensions (empty = all).
func NewWatcher(dir string, extensions []string, onCreate func(path string), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:        filepath.Clean(dir),
		extensions: extensions,
		onCreate:   onCreate,
		settle:     defaultSettle,
		pending:    make(map[string]*time.Timer),
		ready:      make(chan string, readyBuffer),
		done:       make(chan struct{}),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Start creates the directory if missing and starts the observation loop. It runs until ctx is
// cancelled or Stop is called. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if w.started {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return err
	}
	w.watcher = fsw
	w.started = true
	w.logger.Debug("watcher starting", zap.String("dir", w.dir), zap.Strings("extensions", w.extensions), zap.Duration("settle", w.settle))
	go w.run(ctx, fsw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.done:
			return
		default:
		}
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case path := <-w.ready:
			w.deliver(path)
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if filepath.Dir(path) != w.dir {
		return
	}
	w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	switch {
	case ev.Has(fsnotify.Create):
		if !w.matchExtension(path) {
			return
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return
		}
		if w.settle == 0 {
			w.deliver(path)
			return
		}
		w.schedule(path)
	case ev.Has(fsnotify.Write):
		w.mu.Lock()
		_, isPending := w.pending[path]
		w.mu.Unlock()
		if isPending {
			w.schedule(path)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancelPending(path)
	}
}

// schedule (re)starts the settle timer for path. When it fires the path is queued back to the
// run loop, so deliveries stay serial.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) deliver(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		w.logger.Debug("watcher skipping vanished file", zap.String("path", path))
		return
	}
	w.logger.Debug("watcher delivering file", zap.String("path", path))
	if w.onCreate != nil {
		w.onCreate(path)
	}
}

func (w *Watcher) matchExtension(path string) bool {
	return matchExtension(path, w.extensions)
}

func matchExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	if len(extensions) == 0 {
		return true
	}
	for _, e := range extensions {
		eNorm := strings.TrimPrefix(strings.ToLower(e), ".")
		extNorm := strings.TrimPrefix(strings.ToLower(ext), ".")
		if eNorm == extNorm {
			return true
		}
	}
	return false
}

// SyncExistingFiles queues the files already present in the directory, in name order, for
// delivery by the run loop. Call it after Start. It returns the number of files queued.
func (w *Watcher) SyncExistingFiles() (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, err
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if w.matchExtension(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	w.logger.Debug("watcher syncing existing files", zap.String("dir", w.dir), zap.Int("files", len(paths)))
	go func() {
		for _, p := range paths {
			select {
			case w.ready <- p:
			case <-w.done:
				return
			}
		}
	}()
	return len(paths), nil
}

// Stop stops the watcher and releases resources. It is safe to call more than once.
// A delivery already in progress finishes; nothing further is delivered.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
		w.watcher = nil
	}
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}

// Done is closed once the watcher has been stopped.
func (w *Watcher) Done() <-chan struct{} { return w.done }
