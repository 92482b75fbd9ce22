package display

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/wltrans/internal/history"
	"github.com/jmylchreest/wltrans/internal/translate"
)

// Button and result texts shown by the popup.
const (
	LabelTranslate   = "Translate"
	LabelTranslating = "Translating..."
	TextNoResult     = "No translation found."
)

// View is the popup surface the controller drives. Methods are called on
// the UI thread only.
type View interface {
	SourceText() string
	SetResult(text string, isError bool)
	SetBusy(busy bool)
}

// Recorder stores successful translations.
type Recorder interface {
	Add(from, to, source, result string) (history.Entry, error)
}

// Controller runs translations for a View, at most one at a time.
type Controller struct {
	translator translate.Translator
	from, to   string
	timeout    time.Duration
	view       View
	recorder   Recorder
	schedule   func(func())
	logger     *slog.Logger

	inFlight bool
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Translator translate.Translator
	From, To   string
	Timeout    time.Duration
	Recorder   Recorder // optional
	// Schedule runs f on the UI thread.
	Schedule func(f func())
	Logger   *slog.Logger
}

// NewController creates a controller for view.
func NewController(view View, opts ControllerOptions) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		translator: opts.Translator,
		from:       opts.From,
		to:         opts.To,
		timeout:    opts.Timeout,
		view:       view,
		recorder:   opts.Recorder,
		schedule:   opts.Schedule,
		logger:     opts.Logger,
	}
}

// InFlight reports whether a translation is running.
func (c *Controller) InFlight() bool {
	return c.inFlight
}

// Start translates the view's current source text. It is a no-op while a
// translation is already running.
func (c *Controller) Start(ctx context.Context) {
	if c.inFlight {
		return
	}
	c.inFlight = true

	source := c.view.SourceText()
	c.view.SetBusy(true)
	c.view.SetResult("", false)

	go func() {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		result, err := c.translator.Translate(ctx, c.from, c.to, source)
		c.schedule(func() { c.finish(source, result, err) })
	}()
}

func (c *Controller) finish(source, result string, err error) {
	c.inFlight = false

	text, isError := ResultText(result, err)
	c.view.SetResult(text, isError)
	c.view.SetBusy(false)

	if err != nil {
		c.logger.Warn("translation failed", "error", err)
		return
	}
	if c.recorder != nil && result != "" {
		if _, err := c.recorder.Add(c.from, c.to, source, result); err != nil {
			c.logger.Warn("failed to record translation", "error", err)
		}
	}
}

// ResultText returns what the result pane shows for a translation outcome.
func ResultText(result string, err error) (text string, isError bool) {
	switch {
	case err != nil:
		return "Error: " + err.Error(), true
	case result == "":
		return TextNoResult, false
	default:
		return result, false
	}
}
