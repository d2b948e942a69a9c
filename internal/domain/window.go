package domain

import (
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay is the length of one evaluation day.
const MinutesPerDay = 24 * 60

// Weekdays is a set of days of the week stored as a bitmask.
type Weekdays uint8

// NewWeekdays builds a set from the given days. Duplicates collapse.
func NewWeekdays(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d%7)
	}
	return w
}

// Has reports whether d is a member of the set.
func (w Weekdays) Has(d time.Weekday) bool {
	return w&(1<<uint(d%7)) != 0
}

// Days returns the members in Sunday-first order.
func (w Weekdays) Days() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (w Weekdays) String() string {
	days := w.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, ",")
}

// Instant is a point in the weekly cycle with minute precision.
type Instant struct {
	Day    time.Weekday
	Minute int
}

// InstantOf converts a wall clock reading to an Instant in loc.
// A nil loc means the reading's own location.
func InstantOf(t time.Time, loc *time.Location) Instant {
	if loc != nil {
		t = t.In(loc)
	}
	return Instant{Day: t.Weekday(), Minute: t.Hour()*60 + t.Minute()}
}

// Window is one recurring weekly open interval.
//
// StartMinutes always refers to a day in Days. An EndMinutes above
// MinutesPerDay means the window runs past midnight into the following day
// and ends at EndMinutes-MinutesPerDay there.
type Window struct {
	Days         Weekdays
	StartMinutes int
	EndMinutes   int
}

// Wraps reports whether the window crosses midnight.
func (w Window) Wraps() bool {
	return w.EndMinutes > MinutesPerDay
}

// Contains reports whether at falls inside the window.
func (w Window) Contains(at Instant) bool {
	return w.MinutesUntilEnd(at) >= 0
}

// MinutesUntilEnd returns the minutes left until the window closes, measured
// from at, or -1 when at is outside the window.
func (w Window) MinutesUntilEnd(at Instant) int {
	if w.Days.Has(at.Day) {
		if !w.Wraps() {
			if at.Minute >= w.StartMinutes && at.Minute < w.EndMinutes {
				return w.EndMinutes - at.Minute
			}
			return -1
		}
		if at.Minute >= w.StartMinutes {
			return w.EndMinutes - at.Minute
		}
		// Before today's start on a listed day the instant can still belong
		// to yesterday's overflow, handled below.
	}

	prev := (at.Day + 6) % 7
	if w.Wraps() && w.Days.Has(prev) {
		overflowEnd := w.EndMinutes - MinutesPerDay
		if at.Minute < overflowEnd {
			return overflowEnd - at.Minute
		}
	}
	return -1
}

func (w Window) String() string {
	return w.Days.String() + " " + FormatClock(w.StartMinutes) + "-" + FormatClock(w.EndMinutes%MinutesPerDay)
}

// FormatClock renders a minute-of-day as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
