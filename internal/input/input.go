// Package input reads the text to translate.
package input

import (
	"errors"
	"io"
	"os"
	"strings"
)

// MaxInputSize bounds how much text is read from a stream.
const MaxInputSize = 10 * 1024 * 1024

// ErrNoInput is returned when no text is available to translate.
var ErrNoInput = errors.New("no text to translate")

// ErrTooLarge is returned when the input exceeds MaxInputSize.
var ErrTooLarge = errors.New("input exceeds 10MB")

// ReadError wraps failures reading from a source.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return "failed to read " + e.Source + ": " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// StdinSource reads text from standard input.
type StdinSource struct {
	reader io.Reader
}

// NewStdinSource creates a source reading from os.Stdin.
func NewStdinSource() *StdinSource {
	return &StdinSource{reader: os.Stdin}
}

// NewStdinSourceWithReader creates a source reading from r.
func NewStdinSourceWithReader(r io.Reader) *StdinSource {
	return &StdinSource{reader: r}
}

// Read returns all of the input with a single trailing line break removed.
func (s *StdinSource) Read() (string, error) {
	data, err := io.ReadAll(io.LimitReader(s.reader, MaxInputSize+1))
	if err != nil {
		return "", &ReadError{Source: "stdin", Err: err}
	}
	if len(data) > MaxInputSize {
		return "", &ReadError{Source: "stdin", Err: ErrTooLarge}
	}

	text := string(data)
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return text, nil
}

// Resolve returns flagText when set, otherwise the text read from src.
// Blank input is rejected with ErrNoInput.
func Resolve(flagText string, src *StdinSource) (string, error) {
	text := flagText
	if text == "" {
		var err error
		if text, err = src.Read(); err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoInput
	}
	return text, nil
}
