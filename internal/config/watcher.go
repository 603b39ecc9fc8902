package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of fsnotify events editors produce
// when saving a file.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc receives the result of reloading the config file after a
// change: the parsed file, or the error that prevented parsing it.
type ReloadFunc func(f *File, err error)

// Watcher watches a single config file and reloads it on change.
type Watcher struct {
	path     string
	reload   ReloadFunc
	debounce time.Duration

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	done    sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce window for change bursts.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher starts watching path. Every settled change reloads the file
// and invokes reload with the outcome. The parent directory is watched
// rather than the file itself, so editors that replace the file on save
// are still seen.
func NewWatcher(path string, reload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		reload:   reload,
		debounce: DefaultDebounce,
		watcher:  fsw,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.done.Add(1)
	go w.run()
	return w, nil
}

// run consumes fsnotify events until Close.
func (w *Watcher) run() {
	defer w.done.Done()

	base := filepath.Base(w.path)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

// scheduleReload arms (or re-arms) the debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		f, err := Load(w.path)
		w.reload(f, err)
	})
}

// Close stops watching. Pending debounced reloads are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.closeCh)
	err := w.watcher.Close()
	w.done.Wait()
	return err
}
