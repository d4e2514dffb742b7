package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// absoluteLayouts are tried in order for non-relative time expressions
var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimeExpression converts a user supplied time into an instant.
//
// Accepted forms:
//
//	now, now-5m, now-1d+2h, now-1d/d   relative to now, optional trailing round-down
//	1589270400000                      Unix milliseconds
//	2020-05-12T08:00:00Z               RFC3339 and the layouts in absoluteLayouts
//
// Units are s, m, h, d, w, M and y. Any other input yields ErrInvalidTimestamp.
func ParseTimeExpression(expr string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty time expression", ErrInvalidTimestamp)
	}

	if rest, ok := strings.CutPrefix(s, "now"); ok {
		return parseRelative(rest, now, expr)
	}

	if isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, expr, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, expr)
}

// ParseTimestampMillis is ParseTimeExpression returning Unix milliseconds
func ParseTimestampMillis(expr string, now time.Time) (int64, error) {
	t, err := ParseTimeExpression(expr, now)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func parseRelative(rest string, now time.Time, expr string) (time.Time, error) {
	invalid := func() (time.Time, error) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, expr)
	}

	t := now
	for len(rest) > 0 {
		op := rest[0]
		rest = rest[1:]

		switch op {
		case '+', '-':
			i := 0
			for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
				i++
			}
			if i == 0 || i == len(rest) {
				return invalid()
			}
			amount, err := strconv.Atoi(rest[:i])
			if err != nil {
				return invalid()
			}
			if op == '-' {
				amount = -amount
			}

			var ok bool
			if t, ok = shift(t, amount, rest[i]); !ok {
				return invalid()
			}
			rest = rest[i+1:]

		case '/':
			// rounding is only allowed as the final operation
			if len(rest) != 1 {
				return invalid()
			}
			var ok bool
			if t, ok = startOf(t, rest[0]); !ok {
				return invalid()
			}
			rest = ""

		default:
			return invalid()
		}
	}

	return t, nil
}

// maxYear bounds results to instants whose Unix milliseconds fit in an int64
const maxYear = 292277022

func shift(t time.Time, n int, unit byte) (time.Time, bool) {
	var next time.Time
	switch unit {
	case 's', 'm', 'h':
		step := map[byte]time.Duration{'s': time.Second, 'm': time.Minute, 'h': time.Hour}[unit]
		if limit := math.MaxInt64 / int64(step); int64(n) > limit || int64(n) < -limit {
			return t, false
		}
		next = t.Add(time.Duration(n) * step)
	case 'd', 'w', 'M', 'y':
		// past 2*maxYear years in either direction the result cannot be in range
		perYear := map[byte]int{'d': 366, 'w': 53, 'M': 12, 'y': 1}[unit]
		if limit := 2 * maxYear * int64(perYear); int64(n) > limit || int64(n) < -limit {
			return t, false
		}
		switch unit {
		case 'd':
			next = t.AddDate(0, 0, n)
		case 'w':
			next = t.AddDate(0, 0, 7*n)
		case 'M':
			next = t.AddDate(0, n, 0)
		default:
			next = t.AddDate(n, 0, 0)
		}
	default:
		return t, false
	}

	if y := next.Year(); y < -maxYear || y > maxYear {
		return t, false
	}
	return next, true
}

// startOf rounds t down to the beginning of the unit in t's location.
// Weeks start on Sunday.
func startOf(t time.Time, unit byte) (time.Time, bool) {
	y, mo, d := t.Date()
	loc := t.Location()

	switch unit {
	case 's':
		return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, loc), true
	case 'm':
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc), true
	case 'h':
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, loc), true
	case 'd':
		return time.Date(y, mo, d, 0, 0, 0, 0, loc), true
	case 'w':
		return time.Date(y, mo, d-int(t.Weekday()), 0, 0, 0, 0, loc), true
	case 'M':
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc), true
	case 'y':
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), true
	}
	return t, false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
