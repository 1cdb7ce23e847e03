package timer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a timer duration into whole seconds.
//
// Accepted forms:
//   - clock notation: "mm:ss" or "hh:mm:ss" (e.g. "01:30")
//   - plain seconds: "90"
//   - Go duration strings: "1m30s", "2h"
//
// Negative, fractional-second and non-numeric values are rejected with
// ErrInvalidDuration.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: %q is negative", ErrInvalidDuration, s)
		}
		return n, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidDuration, s)
	}
	if d%time.Second != 0 {
		return 0, fmt.Errorf("%w: %q is not a whole number of seconds", ErrInvalidDuration, s)
	}
	return int(d / time.Second), nil
}

// parseClock parses "mm:ss" or "hh:mm:ss". Every field after the first must
// be below 60.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q has too many fields", ErrInvalidDuration, s)
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("%w: %q field %d out of range", ErrInvalidDuration, s, i+1)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatClock renders seconds as "mm:ss", or "hh:mm:ss" from one hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
