// Package output formats translation history for the terminal.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jmylchreest/wltrans/internal/history"
)

// Formatter formats history entries for output.
type Formatter interface {
	// Format writes formatted entries to the writer.
	Format(w io.Writer, entries []history.Entry) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string           // Custom template for plain format
	ShowIndex  bool             // Show 1-based index prefix
	ShowTime   bool             // Show relative time
	TextMaxLen int              // Maximum source/result length (0 = unlimited)
	Now        func() time.Time // Clock for relative times
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		TextMaxLen: 120,
		Now:        time.Now,
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatPlain, "":
		return NewPlainFormatter(opts)
	default:
		return nil, fmt.Errorf("unknown format %q (want plain, json or yaml)", format)
	}
}
