// Package clock supplies the current instant in the bot's reference
// timezone. The quota day rolls over at midnight Kyiv time regardless of
// where the process runs, so everything that touches dates goes through a
// Clock instead of calling time.Now directly.
package clock

import "time"

// ReferenceZone is the timezone quota days are counted in.
const ReferenceZone = "Europe/Kyiv"

// DateLayout is the civil-date form used for reset tracking and persistence.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type kyivClock struct {
	loc *time.Location
}

// New returns the production clock. It falls back to a fixed +02:00 offset
// if the IANA database is unavailable on the host.
func New() Clock {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		loc = time.FixedZone("EET", 2*3600)
	}
	return &kyivClock{loc: loc}
}

func (c *kyivClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Today formats t's civil date in its own location.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// Fixed is a Clock pinned to a settable instant, for tests.
type Fixed struct {
	Instant time.Time
}

func (f *Fixed) Now() time.Time { return f.Instant }

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) { f.Instant = f.Instant.Add(d) }
