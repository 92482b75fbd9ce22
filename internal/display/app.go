package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"

	"github.com/jmylchreest/wltrans/internal/config"
	"github.com/jmylchreest/wltrans/internal/theme"
)

// AppID is the application id registered with GTK.
const AppID = "com.github.jmylchreest.wltrans"

// AppOptions configures Run.
type AppOptions struct {
	Popup     PopupOptions
	ThemesDir string
	Logger    *slog.Logger
}

// Run starts the GTK application, shows the popup and blocks until it is
// closed. It returns the application exit status.
func Run(opts AppOptions) int {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Popup.Logger == nil {
		opts.Popup.Logger = logger
	}

	app := adw.NewApplication(AppID, gio.ApplicationNonUnique)

	var loader *theme.Loader
	app.ConnectStartup(func() {
		applyColorScheme(opts.Popup.Config.ColorScheme)
	})
	app.ConnectActivate(func() {
		loader = theme.NewLoader(opts.ThemesDir, logger)
		if err := loader.LoadTheme(opts.Popup.Config.Theme); err != nil {
			logger.Warn("failed to load theme", "theme", opts.Popup.Config.Theme, "error", err)
		}
		loader.Apply(nil)
		loader.StartHotReload()

		popup := NewPopup(&app.Application, opts.Popup)
		popup.Present()
	})
	app.ConnectShutdown(func() {
		if loader != nil {
			loader.StopHotReload()
		}
	})

	return app.Run(nil)
}

func applyColorScheme(scheme string) {
	sm := adw.StyleManagerGetDefault()
	switch scheme {
	case config.SchemeLight:
		sm.SetColorScheme(adw.ColorSchemeForceLight)
	case config.SchemeDark:
		sm.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		sm.SetColorScheme(adw.ColorSchemeDefault)
	}
}
