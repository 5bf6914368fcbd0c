package routeset

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pathmatch"
)

// ErrorCallback is called when a reload fails.
type ErrorCallback func(error)

// Watcher watches a route table file and republishes the router whenever the
// file changes. A table that fails to load or build is discarded and the
// previously published router stays in effect.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	swapper       *Swapper
	logger        *zap.Logger
	debounceDelay time.Duration
	errorCallback ErrorCallback
	mu            sync.Mutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithErrorCallback sets the callback invoked when a reload fails.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// NewWatcher creates a watcher for the route table file at path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		swapper:       NewSwapper(nil),
		logger:        zap.NewNop(),
		debounceDelay: 100 * time.Millisecond,
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the route table once and begins watching it for changes. The
// initial load must succeed; later reload failures only keep the previous
// router published.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	router, err := Load(w.path)
	if err != nil {
		w.abortStart()
		return err
	}
	w.swapper.Publish(router)

	// Watch the directory: editors replace files rather than write in place.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.abortStart()
		return err
	}

	w.logger.Info("watching route table",
		zap.String("path", w.path),
		zap.Int("routes", router.Len()),
	)

	go w.watch(ctx)

	return nil
}

// abortStart rolls back the running flag when Start fails before the watch
// loop is spawned, so a later Stop does not wait on it.
func (w *Watcher) abortStart() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stop stops watching the route table file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// Swapper returns the publication point fed by this watcher.
func (w *Watcher) Swapper() *Swapper {
	return w.swapper
}

// Match resolves path against the most recently published router.
func (w *Watcher) Match(path string) (pathmatch.Match[string], error) {
	return w.swapper.Match(path)
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("route table watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("route table watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

// handleFileEvent processes a file system event and returns the updated
// debounce timer.
func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("route table changed",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

// handleWatchError handles watcher errors.
func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("route table watcher error", zap.Error(err))
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

// reload attempts to rebuild and publish the route table.
func (w *Watcher) reload() {
	router, err := Load(w.path)
	if err != nil {
		w.logger.Error("route table reload failed, keeping previous routes",
			zap.String("path", w.path),
			zap.Error(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.swapper.Publish(router)
	w.logger.Info("route table reloaded",
		zap.String("path", w.path),
		zap.Int("routes", router.Len()),
	)
}

// ForceReload rebuilds and publishes the route table immediately.
func (w *Watcher) ForceReload() error {
	router, err := Load(w.path)
	if err != nil {
		return err
	}
	w.swapper.Publish(router)
	return nil
}
