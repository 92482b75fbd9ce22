package history

import (
	"strings"
	"time"
)

// FilterOptions specifies criteria for selecting entries.
type FilterOptions struct {
	Since  time.Duration // Only entries newer than now-since (0=all)
	Lang   string        // Matches either side of the language pair
	Search string        // Case-insensitive substring of source, result or pair
	Limit  int           // Maximum results (0=unlimited)
}

// Filter returns the entries matching opts, preserving order.
func Filter(entries []Entry, opts FilterOptions, now time.Time) []Entry {
	result := make([]Entry, 0, len(entries))
	cutoff := now.Add(-opts.Since).Unix()

	for _, e := range entries {
		if opts.Since > 0 && e.CreatedAt < cutoff {
			continue
		}
		if opts.Lang != "" && !strings.EqualFold(e.From, opts.Lang) && !strings.EqualFold(e.To, opts.Lang) {
			continue
		}
		if !MatchesTerm(e, opts.Search) {
			continue
		}
		result = append(result, e)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result
}

// MatchesTerm reports whether term appears in the entry's source, result,
// or "from->to" pair, ignoring case. An empty term matches everything.
func MatchesTerm(e Entry, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{e.Source, e.Result, e.From + "->" + e.To} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
