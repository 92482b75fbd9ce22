package history

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reloads a Store when its history file changes on disk.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	store   *Store
	logger  *slog.Logger
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewFileWatcher creates a watcher for the store's history file.
func NewFileWatcher(store *Store, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher: w,
		store:   store,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched since rewrites
// replace the file.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return nil
	}

	if err := fw.watcher.Add(filepath.Dir(fw.store.Path())); err != nil {
		return err
	}
	fw.running = true
	go fw.watch()
	return nil
}

func (fw *FileWatcher) watch() {
	name := filepath.Base(fw.store.Path())

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.logger.Debug("history file changed, reloading", "path", event.Name)
				if err := fw.store.Reload(); err != nil {
					fw.logger.Warn("failed to reload history", "error", err)
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("history watcher error", "error", err)

		case <-fw.done:
			return
		}
	}
}

// Stop stops the watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return fw.watcher.Close()
	}
	fw.running = false
	close(fw.done)
	return fw.watcher.Close()
}
