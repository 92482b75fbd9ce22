package display

import (
	"context"
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wltrans/internal/config"
	"github.com/jmylchreest/wltrans/internal/placement"
	"github.com/jmylchreest/wltrans/internal/probe"
)

// Popup is the translation window.
type Popup struct {
	window    *gtk.ApplicationWindow
	box       *gtk.Box
	srcView   *gtk.TextView
	dstView   *gtk.TextView
	translate *gtk.Button
	close     *gtk.Button

	ctrl   *Controller
	cfg    config.PopupConfig
	logger *slog.Logger
}

// PopupOptions configures a Popup.
type PopupOptions struct {
	Config     config.PopupConfig
	Env        probe.EnvInfo
	SourceText string
	Controller ControllerOptions
	Logger     *slog.Logger
}

// NewPopup builds the popup window for app. It must run on the GTK main thread.
func NewPopup(app *gtk.Application, opts PopupOptions) *Popup {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := &Popup{cfg: opts.Config, logger: opts.Logger}

	p.window = gtk.NewApplicationWindow(app)
	p.window.SetDecorated(false)
	p.buildUI(opts.SourceText)

	ctrlOpts := opts.Controller
	if ctrlOpts.Schedule == nil {
		ctrlOpts.Schedule = func(f func()) { glib.IdleAdd(f) }
	}
	if ctrlOpts.Logger == nil {
		ctrlOpts.Logger = opts.Logger
	}
	p.ctrl = NewController(p, ctrlOpts)

	p.connectSignals()
	p.setupLayerShell(opts.Env)
	return p
}

func (p *Popup) buildUI(source string) {
	p.box = gtk.NewBox(gtk.OrientationVertical, 0)
	p.box.AddCSSClass("wltrans-popup")
	p.box.AddCSSClass(p.colorSchemeClass())

	grid := gtk.NewGrid()
	grid.SetColumnHomogeneous(true)
	grid.SetRowHomogeneous(true)
	grid.SetColumnSpacing(10)
	grid.SetRowSpacing(10)
	grid.SetVExpand(true)
	grid.SetHExpand(true)

	var srcScroll, dstScroll *gtk.ScrolledWindow
	p.srcView, srcScroll = newTextPane("wltrans-source")
	p.srcView.Buffer().SetText(source)
	p.dstView, dstScroll = newTextPane("wltrans-result")
	p.dstView.SetEditable(false)

	grid.Attach(srcScroll, 0, 0, 1, 4)
	grid.Attach(dstScroll, 1, 0, 1, 4)

	p.translate = gtk.NewButtonWithLabel(LabelTranslate)
	p.translate.AddCSSClass("suggested-action")
	p.close = gtk.NewButtonWithLabel("Close")
	p.close.AddCSSClass("destructive-action")

	buttons := gtk.NewBox(gtk.OrientationHorizontal, 10)
	buttons.SetHomogeneous(true)
	buttons.AddCSSClass("wltrans-buttons")
	buttons.Append(p.translate)
	buttons.Append(p.close)
	grid.Attach(buttons, 0, 4, 2, 1)

	p.box.Append(grid)
	p.window.SetChild(p.box)
}

func newTextPane(class string) (*gtk.TextView, *gtk.ScrolledWindow) {
	tv := gtk.NewTextView()
	tv.SetWrapMode(gtk.WrapWord)
	tv.AddCSSClass("wltrans-text")
	tv.AddCSSClass(class)

	sw := gtk.NewScrolledWindow()
	sw.SetChild(tv)
	return tv, sw
}

func (p *Popup) connectSignals() {
	p.translate.ConnectClicked(func() {
		p.ctrl.Start(context.Background())
	})
	p.close.ConnectClicked(func() {
		p.window.Close()
	})

	keys := gtk.NewEventControllerKey()
	keys.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		if keyval == gdk.KEY_Escape {
			p.window.Close()
			return true
		}
		return false
	})
	p.window.AddController(keys)
}

// setupLayerShell anchors the window to every edge of the overlay layer
// and uses margins to leave a box at the pointer.
func (p *Popup) setupLayerShell(env probe.EnvInfo) {
	w := &p.window.Window
	layershell.InitForWindow(w)
	layershell.SetNamespace(w, p.cfg.Namespace)
	layershell.SetLayer(w, layershell.LayerShellLayerOverlay)
	layershell.SetKeyboardMode(w, keyboardMode(p.cfg.KeyboardMode))

	for _, edge := range []layershell.Edge{
		layershell.LayerShellEdgeTop,
		layershell.LayerShellEdgeRight,
		layershell.LayerShellEdgeBottom,
		layershell.LayerShellEdgeLeft,
	} {
		layershell.SetAnchor(w, edge, true)
	}

	width, height := placement.PopupSize(env, p.cfg.SizeDivisor)
	m := placement.Calculate(env, width, height)
	layershell.SetMargin(w, layershell.LayerShellEdgeTop, m.Top)
	layershell.SetMargin(w, layershell.LayerShellEdgeRight, m.Right)
	layershell.SetMargin(w, layershell.LayerShellEdgeBottom, m.Bottom)
	layershell.SetMargin(w, layershell.LayerShellEdgeLeft, m.Left)

	p.logger.Debug("popup placed",
		"width", width, "height", height,
		"top", m.Top, "right", m.Right, "bottom", m.Bottom, "left", m.Left)
}

func keyboardMode(mode string) layershell.KeyboardMode {
	switch mode {
	case config.KeyboardExclusive:
		return layershell.LayerShellKeyboardModeExclusive
	case config.KeyboardNone:
		return layershell.LayerShellKeyboardModeNone
	default:
		return layershell.LayerShellKeyboardModeOnDemand
	}
}

// colorSchemeClass returns "light" or "dark" from config or the system
// preference reported by libadwaita.
func (p *Popup) colorSchemeClass() string {
	switch p.cfg.ColorScheme {
	case config.SchemeLight:
		return "light"
	case config.SchemeDark:
		return "dark"
	}
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}

// Present shows the window and starts the first translation.
func (p *Popup) Present() {
	p.window.Present()
	p.ctrl.Start(context.Background())
}

// SourceText implements View.
func (p *Popup) SourceText() string {
	buf := p.srcView.Buffer()
	start, end := buf.Bounds()
	return buf.Text(start, end, false)
}

// SetResult implements View.
func (p *Popup) SetResult(text string, isError bool) {
	p.dstView.Buffer().SetText(text)
	if isError {
		p.dstView.AddCSSClass("error")
	} else {
		p.dstView.RemoveCSSClass("error")
	}
}

// SetBusy implements View.
func (p *Popup) SetBusy(busy bool) {
	p.translate.SetSensitive(!busy)
	if busy {
		p.translate.SetLabel(LabelTranslating)
	} else {
		p.translate.SetLabel(LabelTranslate)
	}
}
