// Package report implements the date-windowed spending reports and the
// persistence wrapper that records their results as JSON artifacts.
package report

import (
	"strings"
	"time"

	"cardstats/internal/core"
)

// DefaultMonths is the trailing window length used when callers do not
// override it.
const DefaultMonths = 3

// asOfLayouts are the accepted formats for a report's as-of date string,
// tried in order. First match wins.
var asOfLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"2006-01-02 15:04:05",
}

// ResolveAsOf resolves an optional as-of date string to a concrete time.
// An empty string means "now". A string matching none of the accepted
// layouts also resolves to "now": bad input degrades silently, it never
// fails a report. The second return value reports whether the fallback
// was taken so callers can log it.
func ResolveAsOf(s string, now func() time.Time) (time.Time, bool) {
	if now == nil {
		now = time.Now
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return now(), false
	}
	for _, layout := range asOfLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false
		}
	}
	return now(), true
}

// Window is the inclusive [Start, End] range a report covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a trailing window ending at end. The start is end minus
// months*30 days, a deliberate day-based approximation rather than
// calendar-month arithmetic.
func NewWindow(end time.Time, months int) Window {
	if months < 0 {
		months = 0
	}
	return Window{Start: end.AddDate(0, 0, -months*30), End: end}
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w Window) String() string {
	return w.Start.Format(core.DateLayout) + " - " + w.End.Format(core.DateLayout)
}
