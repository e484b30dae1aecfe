package core

import (
	"strings"
	"time"
)

// DateLayout is the display format for dates in report artifacts and
// dashboard payloads (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// DateTimeLayout is the timestamped variant used by the source ledger.
const DateTimeLayout = "02.01.2006 15:04:05"

// cellLayouts are the formats a ledger date cell may arrive in, tried in
// order. ISO dates appear when the table was round-tripped through JSON.
var cellLayouts = []string{
	DateTimeLayout,
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCellDate parses a date cell from the ledger. Returns ErrInvalidDate
// when no known layout matches; callers drop such rows from date-windowed
// analyses rather than failing.
func ParseCellDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range cellLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// WeekdayIndex maps a time to the Monday=0..Sunday=6 convention used by
// the weekday and workday reports.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayNames holds the localized weekday names indexed by WeekdayIndex.
var WeekdayNames = [7]string{
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
	"Воскресенье",
}
