// Package week decides whether two instants share a Sunday-aligned calendar week.
//
// The rule works on civil days and weekdays only, never on year or ISO week
// numbers, so weeks that straddle New Year need no special casing.
package week

import (
	"time"

	"github.com/rcliao/screen-time/internal/model"
)

const daysPerWeek = 7

// SameWeek reports whether a and b fall in the same Sunday-starting week
// when read as calendar dates in loc. A nil loc means time.Local.
//
// Two dates are in the same week iff they are fewer than seven civil days
// apart and the later one's weekday (Sunday = 0) is not before the earlier
// one's. The second condition catches a Saturday to Sunday wrap inside a
// seven day span.
func SameWeek(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	a, b = a.In(loc), b.In(loc)

	newer, older := a, b
	if b.After(a) {
		newer, older = b, a
	}

	distance := civilDay(newer) - civilDay(older)
	if distance < 0 {
		distance = -distance
	}
	return distance < daysPerWeek && newer.Weekday() >= older.Weekday()
}

// SameWeekMillis applies SameWeek to two samples.
func SameWeekMillis(a, b model.Sample, loc *time.Location) bool {
	return SameWeek(a.Time(loc), b.Time(loc), loc)
}

// Start returns midnight of the Sunday that begins t's week in loc.
func Start(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, loc)
}

// civilDay counts calendar days since 1970-01-01 for t's wall-clock date,
// ignoring its offset so DST changes never shift the count.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
