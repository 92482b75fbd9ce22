package history

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Store holds translation history in memory backed by a JSONL file.
// Entries are kept oldest first; listings are newest first.
type Store struct {
	mu         sync.RWMutex
	entries    []Entry
	p          *persistence
	maxEntries int
	now        func() time.Time
	logger     *slog.Logger

	subMu       sync.Mutex
	subscribers []chan struct{}
}

// ErrNotFound is returned when an entry ID is not in the store.
var ErrNotFound = errors.New("entry not found")

// Open loads the history file at path. maxEntries of 0 disables the cap.
func Open(path string, maxEntries int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p, err := openPersistence(path, logger)
	if err != nil {
		return nil, err
	}

	entries, err := p.load()
	if err != nil {
		p.close()
		return nil, err
	}
	sortByAge(entries)

	s := &Store{
		entries:    entries,
		p:          p,
		maxEntries: maxEntries,
		now:        time.Now,
		logger:     logger,
	}
	logger.Debug("history loaded", "path", path, "entries", len(entries))
	return s, nil
}

// Add records a translation and returns the stored entry. When the store
// exceeds its cap the oldest entries are dropped from memory and disk.
func (s *Store) Add(from, to, source, result string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := NewEntry(from, to, source, result, s.now())
	if err != nil {
		return Entry{}, err
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}

	if err := s.p.append(e); err != nil {
		return Entry{}, err
	}
	s.entries = append(s.entries, e)

	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		dropped := len(s.entries) - s.maxEntries
		s.entries = append([]Entry(nil), s.entries[dropped:]...)
		if err := s.p.rewrite(s.entries); err != nil {
			return e, err
		}
		s.logger.Debug("history capped", "dropped", dropped, "max_entries", s.maxEntries)
	}

	s.notify()
	return e, nil
}

// List returns up to limit entries, newest first. A limit of 0 returns all.
func (s *Store) List(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// Prune removes entries older than olderThan and then all but the keep
// newest entries. Zero disables either rule. It returns the removed count.
func (s *Store) Prune(olderThan time.Duration, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries
	if olderThan > 0 {
		cutoff := s.now().Add(-olderThan).Unix()
		kept = kept[:0:0]
		for _, e := range s.entries {
			if e.CreatedAt >= cutoff {
				kept = append(kept, e)
			}
		}
	}
	if keep > 0 && len(kept) > keep {
		kept = kept[len(kept)-keep:]
	}

	removed := len(s.entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	kept = append([]Entry(nil), kept...)
	if err := s.p.rewrite(kept); err != nil {
		return 0, err
	}
	s.entries = kept
	s.notify()
	return removed, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Delete removes a single entry and rewrites the history file.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	kept := make([]Entry, 0, len(s.entries)-1)
	kept = append(kept, s.entries[:idx]...)
	kept = append(kept, s.entries[idx+1:]...)
	if err := s.p.rewrite(kept); err != nil {
		return err
	}
	s.entries = kept
	s.notify()
	return nil
}

// Reload re-reads the history file, picking up entries written by other
// processes.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.p.load()
	if err != nil {
		return err
	}
	sortByAge(entries)
	s.entries = entries
	s.logger.Debug("history reloaded", "path", s.p.path, "entries", len(entries))
	s.notify()
	return nil
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.p.path
}

// Subscribe returns a channel that receives a value after each change.
// Notifications coalesce when the receiver is slow.
func (s *Store) Subscribe() <-chan struct{} {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	ch := make(chan struct{}, 1)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func sortByAge(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt < entries[j].CreatedAt
	})
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close releases the history file.
func (s *Store) Close() error {
	return s.p.close()
}
