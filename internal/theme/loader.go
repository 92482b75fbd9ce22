package theme

import (
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies a theme to a GDK display and keeps user themes live.
type Loader struct {
	mu        sync.Mutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string
	theme     *Theme
	watcher   *Watcher
}

// NewLoader creates a loader reading user themes from themesDir.
// It must be called on the GTK main thread.
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// LoadTheme resolves name and loads its CSS into the provider.
func (l *Loader) LoadTheme(name string) error {
	t, found, err := Resolve(name, l.themesDir)
	if err != nil {
		return err
	}
	if !found {
		l.logger.Warn("theme not found, using default", "theme", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.theme = t
	l.provider.LoadFromString(t.CSS)
	l.logger.Debug("loaded theme", "name", t.Name, "path", t.Path)
	return nil
}

// Apply attaches the provider to display, or the default display when nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}
	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}

// StartHotReload watches the current user theme file. Bundled themes are
// not watched. Reloaded CSS is applied on the GTK main thread.
func (l *Loader) StartHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.Bundled || l.watcher != nil {
		return
	}

	w, err := NewWatcher(l.theme.Path, func(css string) {
		glib.IdleAdd(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.provider.LoadFromString(css)
		})
	}, l.logger)
	if err != nil {
		l.logger.Warn("failed to create theme watcher", "error", err)
		return
	}
	if err := w.Start(); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
		_ = w.Stop()
		return
	}
	l.watcher = w
}

// StopHotReload stops watching the theme file.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watcher != nil {
		_ = l.watcher.Stop()
		l.watcher = nil
	}
}

// CurrentTheme returns the name of the loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Name
}
