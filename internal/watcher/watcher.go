// Package watcher reports changes to watched files, coalescing bursts of
// file system events into one callback per file.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/textfinder/internal/event"
	"github.com/bethropolis/textfinder/internal/logger"
	"github.com/fsnotify/fsnotify"
)

var (
	// ErrWatcherClosed is returned when watching after Close.
	ErrWatcherClosed = errors.New("watcher closed")
	// ErrNotWatching is returned when unwatching an unknown file.
	ErrNotWatching = errors.New("file not watched")
)

// DefaultDelay is the quiet period before a change is reported.
const DefaultDelay = 100 * time.Millisecond

type target struct {
	onChange  func()
	debouncer *event.Debouncer
}

// Watcher watches individual files through their parent directories, so
// atomic saves (write to temp, rename over) are seen as well.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	delay   time.Duration
	files   map[string]*target
	dirs    map[string]int
	errors  chan error
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New starts a watcher. delay <= 0 uses DefaultDelay.
func New(delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	w := &Watcher{
		fsw:     fsw,
		delay:   delay,
		files:   make(map[string]*target),
		dirs:    make(map[string]int),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch calls onChange, on the watcher goroutine, after path was written,
// created or replaced.
func (w *Watcher) Watch(path string, onChange func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if _, ok := w.files[absPath]; ok {
		w.files[absPath].onChange = onChange
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[absPath] = &target{onChange: onChange, debouncer: &event.Debouncer{}}
	logger.DebugTagf("watcher", "Watching %s", absPath)
	return nil
}

// Unwatch stops reporting changes to path.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.files[absPath]
	if !ok {
		return ErrNotWatching
	}
	t.debouncer.Stop()
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if !w.closed {
			_ = w.fsw.Remove(dir)
		}
	}
	return nil
}

// Errors delivers errors from the underlying watcher. The channel is
// buffered and drops errors nobody reads.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and cancels pending callbacks.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.files {
		t.debouncer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.WarnTagf("watcher", "File watcher error: %v", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	absPath, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	t, ok := w.files[absPath]
	closed := w.closed
	w.mu.Unlock()
	if !ok || closed {
		return
	}

	logger.DebugTagf("watcher", "Change %s on %s", ev.Op, absPath)
	t.debouncer.Debounce(w.delay, func() {
		w.mu.Lock()
		current, still := w.files[absPath]
		onChange := t.onChange
		w.mu.Unlock()
		if still && current == t {
			onChange()
		}
	})
}
