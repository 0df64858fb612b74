package reload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change to a file before
// its reload is triggered.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned when watching with a closed FileWatcher.
var ErrWatcherClosed = errors.New("file watcher is closed")

// Trigger reloads the source with the given ID.
type Trigger func(ctx context.Context, sourceID string) error

// FileWatcher calls a Trigger when watched files change.
//
// Parent directories are watched instead of the files themselves, so editors
// that replace a file through a rename are detected too.
type FileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	trigger  Trigger
	logger   *slog.Logger
	debounce time.Duration

	files  map[string][]string
	dirs   map[string]bool
	timers map[string]*time.Timer

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// WatcherOption configures a FileWatcher.
type WatcherOption func(*FileWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(debounce time.Duration) WatcherOption {
	return func(w *FileWatcher) {
		w.debounce = debounce
	}
}

// WithWatcherLogger sets the logger. The default is slog.Default().
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *FileWatcher) {
		w.logger = logger
	}
}

// NewFileWatcher creates a FileWatcher calling trigger.
func NewFileWatcher(trigger Trigger, opts ...WatcherOption) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &FileWatcher{
		watcher:  fsw,
		trigger:  trigger,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		files:    make(map[string][]string),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	for _, apply := range opts {
		apply(w)
	}

	return w, nil
}

// Watch reloads sourceID whenever the file at path changes.
func (w *FileWatcher) Watch(path, sourceID string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	dir := filepath.Dir(absPath)
	if !w.dirs[dir] {
		err = w.watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("watching %q: %w", dir, err)
		}

		w.dirs[dir] = true
	}

	w.files[absPath] = append(w.files[absPath], sourceID)

	return nil
}

// Start processes file events until ctx is done or the watcher is closed.
// ctx is passed to the trigger.
func (w *FileWatcher) Start(ctx context.Context) {
	w.wg.Add(1)

	go w.run(ctx)
}

// Close stops the watcher and waits for the event loop to exit.
func (w *FileWatcher) Close() error {
	w.mu.Lock()

	if w.closed {
		w.mu.Unlock()

		return nil
	}

	w.closed = true
	close(w.done)

	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}

	w.mu.Unlock()

	err := w.watcher.Close()

	w.wg.Wait()

	if err != nil {
		return fmt.Errorf("closing file watcher: %w", err)
	}

	return nil
}

func (w *FileWatcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Warn("file watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *FileWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if _, watched := w.files[path]; !watched {
		return
	}

	if timer, pending := w.timers[path]; pending {
		timer.Reset(w.debounce)

		return
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.fire(ctx, path)
	})
}

func (w *FileWatcher) fire(ctx context.Context, path string) {
	w.mu.Lock()

	if w.closed {
		w.mu.Unlock()

		return
	}

	delete(w.timers, path)
	sourceIDs := append([]string(nil), w.files[path]...)

	w.mu.Unlock()

	for _, sourceID := range sourceIDs {
		w.logger.Debug("file changed, reloading", slog.String("path", path), slog.String("source", sourceID))

		err := w.trigger(ctx, sourceID)
		if err != nil {
			w.logger.Warn("reload failed",
				slog.String("path", path),
				slog.String("source", sourceID),
				slog.String("error", err.Error()))
		}
	}
}
