package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/wltrans/internal/history"
)

// PlainFormatter formats entries as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// templateData is passed to custom templates.
type templateData struct {
	Index int
	*history.Entry
	RelativeTime string
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("parse template: %w", err)
		}
		f.template = tmpl
	}

	return f, nil
}

// Format writes entries as plain text.
func (f *PlainFormatter) Format(w io.Writer, entries []history.Entry) error {
	for i := range entries {
		if err := f.formatEntry(w, i+1, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatEntry(w io.Writer, index int, e *history.Entry) error {
	rel := humanize.RelTime(e.Time(), f.opts.Now(), "ago", "from now")

	if f.template != nil {
		if err := f.template.Execute(w, templateData{Index: index, Entry: e, RelativeTime: rel}); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}
	fmt.Fprintf(&sb, "%s -> %s", e.From, e.To)
	if f.opts.ShowTime {
		fmt.Fprintf(&sb, " (%s)", rel)
	}
	sb.WriteString("\n")
	sb.WriteString("    " + f.clip(e.Source) + "\n")
	sb.WriteString("    = " + f.clip(e.Result) + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *PlainFormatter) clip(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return truncate(s, f.opts.TextMaxLen)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return truncate(s, maxLen)
		},
		"oneline": func(s string) string {
			return strings.ReplaceAll(s, "\n", " ")
		},
	}
}
