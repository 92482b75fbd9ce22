package theme

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a theme file through fsnotify.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(css string)
	logger   *slog.Logger
	done     chan struct{}
	stopped  chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher for the theme at path. onChange receives the
// re-read CSS with imports inlined, on the watcher goroutine.
func NewWatcher(path string, onChange func(css string), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		path:     path,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start begins watching. Editors that replace files by rename are handled
// by watching the parent directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	go w.watch()
	w.logger.Debug("theme watcher started", "path", w.path)
	return nil
}

func (w *Watcher) watch() {
	defer close(w.stopped)
	name := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			t, found, err := Resolve(name[:len(name)-len(filepath.Ext(name))], filepath.Dir(w.path))
			if err != nil || !found || t.Bundled {
				w.logger.Warn("failed to reload theme", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("theme file changed, reloading", "path", w.path)
			w.onChange(t.CSS)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops the watcher and waits for its goroutine.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.stopped
	return err
}
