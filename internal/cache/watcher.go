package cache

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"adspend/internal"

	"github.com/fsnotify/fsnotify"
)

// WorkbookWatcher invalidates the cache when the workbook changes on disk.
// It watches the parent directory because spreadsheet editors save by replacing the file.
type WorkbookWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	cache    *DatasetCache
	logger   *internal.Logger
	path     string
	dir      string
	debounce time.Duration
	onChange func(path string)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWorkbookWatcher creates a watcher for a single workbook path
func NewWorkbookWatcher(path string, cache *DatasetCache, logger *internal.Logger) (*WorkbookWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	abs := normalizePath(path)
	return &WorkbookWatcher{
		watcher:  watcher,
		cache:    cache,
		logger:   logger,
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce changes how long events are batched before invalidating
func (w *WorkbookWatcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// OnChange registers a callback run after each invalidation
func (w *WorkbookWatcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching. It is non-blocking.
func (w *WorkbookWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.logger.Info("[WorkbookWatcher] Watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (w *WorkbookWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("[WorkbookWatcher] error closing watcher: %v", err)
	}
}

func (w *WorkbookWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Trace("[WorkbookWatcher] %s %s", event.Op, event.Name)

			w.mu.Lock()
			d := w.debounce
			w.mu.Unlock()
			if timer == nil {
				timer = time.NewTimer(d)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(d)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.cache.Invalidate(w.path)
			w.logger.Info("[WorkbookWatcher] %s changed, cached dataset dropped", w.path)

			w.mu.Lock()
			fn := w.onChange
			w.mu.Unlock()
			if fn != nil {
				fn(w.path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("[WorkbookWatcher] watch error: %v", err)
		}
	}
}

func (w *WorkbookWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
