// Package history records past translations in a JSONL file.
package history

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is a single recorded translation.
type Entry struct {
	ID        string `json:"id" yaml:"id"`
	From      string `json:"from" yaml:"from"`
	To        string `json:"to" yaml:"to"`
	Source    string `json:"source" yaml:"source"`
	Result    string `json:"result" yaml:"result"`
	CreatedAt int64  `json:"created_at" yaml:"created_at"`
}

// Validation errors.
var (
	ErrEmptyID     = errors.New("id cannot be empty")
	ErrEmptySource = errors.New("source cannot be empty")
)

// NewEntry creates an Entry with a fresh ULID stamped at now.
func NewEntry(from, to, source, result string, now time.Time) (Entry, error) {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to generate ULID: %w", err)
	}
	return Entry{
		ID:        id.String(),
		From:      from,
		To:        to,
		Source:    source,
		Result:    result,
		CreatedAt: now.Unix(),
	}, nil
}

// Validate checks the fields every stored entry must carry.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Source == "" {
		return ErrEmptySource
	}
	return nil
}

// Time returns CreatedAt as a time.Time.
func (e *Entry) Time() time.Time {
	return time.Unix(e.CreatedAt, 0)
}
