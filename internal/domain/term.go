package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Term is a premium grant duration: either a fixed number of seconds or
// "forever". The zero value is a zero-length term.
type Term struct {
	Forever bool
	Seconds int64
}

// Fixed-size unit thresholds. Month and year are deliberate approximations
// (30 and 365 days); Term formatting is a status display, never an input to
// date arithmetic beyond adding Seconds to an instant.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerWeek   = 604800
	secondsPerMonth  = 2592000
	secondsPerYear   = 31536000
)

var termPattern = regexp.MustCompile(`^(\d+)\s*(seconds?|secs?|minutes?|mins?|months?|hours?|days?|weeks?|years?|[smhdwy])$`)

var unitSeconds = map[byte]int64{
	's': 1,
	'm': secondsPerMinute,
	'h': secondsPerHour,
	'd': secondsPerDay,
	'w': secondsPerWeek,
	'y': secondsPerYear,
}

// ParseTerm parses a human-entered duration such as "45s", "30m", "2h",
// "7d", "1month" or "forever". Whitespace between the number and the unit is
// optional. Unrecognized input or a term too large to represent yields
// ErrInvalidDuration.
func ParseTerm(text string) (Term, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "forever" {
		return Term{Forever: true}, nil
	}

	m := termPattern.FindStringSubmatch(text)
	if m == nil {
		return Term{}, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}

	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Term{}, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}

	unit := m[2]
	var per int64
	if strings.HasPrefix(unit, "month") {
		per = secondsPerMonth
	} else {
		per = unitSeconds[unit[0]]
	}
	if amount > math.MaxInt64/per {
		return Term{}, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	return Term{Seconds: amount * per}, nil
}

// String renders the term with the largest unit that still yields a whole
// count, truncating. The result re-parses into the same unit bucket.
func (t Term) String() string {
	if t.Forever {
		return "forever"
	}

	s := t.Seconds
	switch {
	case s < secondsPerMinute:
		return plural(s, "second")
	case s < secondsPerHour:
		return plural(s/secondsPerMinute, "minute")
	case s < secondsPerDay:
		return plural(s/secondsPerHour, "hour")
	case s < secondsPerWeek:
		return plural(s/secondsPerDay, "day")
	case s < secondsPerMonth:
		return plural(s/secondsPerWeek, "week")
	case s < secondsPerYear:
		return plural(s/secondsPerMonth, "month")
	default:
		return plural(s/secondsPerYear, "year")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Duration returns the term as a time.Duration. Meaningless for forever
// terms; callers check Forever first.
func (t Term) Duration() time.Duration {
	return time.Duration(t.Seconds) * time.Second
}

// MarshalJSON encodes a forever term as null and a fixed term as its second
// count, matching the persisted promo format.
func (t Term) MarshalJSON() ([]byte, error) {
	if t.Forever {
		return []byte("null"), nil
	}
	return json.Marshal(t.Seconds)
}

func (t *Term) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Term{Forever: true}
		return nil
	}
	var s int64
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Term{Seconds: s}
	return nil
}
