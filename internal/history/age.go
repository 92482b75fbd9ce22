package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseAge parses an age threshold such as 48h, 7d or 2w.
// An empty string or "0" means no threshold.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}

	if days, found := strings.CutSuffix(s, "d"); found {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age: %s", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	if weeks, found := strings.CutSuffix(s, "w"); found {
		n, err := strconv.Atoi(weeks)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age: %s", s)
		}
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid age: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid age: %s", s)
	}
	return d, nil
}
