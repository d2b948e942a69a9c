package domain

import (
	"testing"
	"time"
)

func TestWindow_SameDay(t *testing.T) {
	w := Window{Days: NewWeekdays(time.Monday, time.Wednesday), StartMinutes: 9 * 60, EndMinutes: 17 * 60}

	tests := []struct {
		name string
		at   Instant
		want int
	}{
		{"at start", Instant{time.Monday, 540}, 480},
		{"inside", Instant{time.Wednesday, 1000}, 20},
		{"last minute", Instant{time.Monday, 1019}, 1},
		{"at end is outside", Instant{time.Monday, 1020}, -1},
		{"before start", Instant{time.Monday, 539}, -1},
		{"unlisted day", Instant{time.Tuesday, 600}, -1},
		{"next day early morning", Instant{time.Tuesday, 0}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.MinutesUntilEnd(tt.at); got != tt.want {
				t.Errorf("MinutesUntilEnd(%v) = %d, want %d", tt.at, got, tt.want)
			}
			if got := w.Contains(tt.at); got != (tt.want >= 0) {
				t.Errorf("Contains(%v) = %t, want %t", tt.at, got, tt.want >= 0)
			}
		})
	}
}

func TestWindow_OvernightScenario(t *testing.T) {
	// MON 22:00 - 02:00 next day.
	w := Window{Days: NewWeekdays(time.Monday), StartMinutes: 1320, EndMinutes: 1440 + 120}

	if !w.Contains(Instant{time.Tuesday, 60}) {
		t.Error("expected open Tuesday 01:00 (continuation of Monday)")
	}
	if w.Contains(Instant{time.Tuesday, 180}) {
		t.Error("expected closed Tuesday 03:00")
	}
	if !w.Contains(Instant{time.Monday, 1380}) {
		t.Error("expected open Monday 23:00")
	}
	if w.Contains(Instant{time.Monday, 60}) {
		t.Error("expected closed Monday 01:00 (Sunday is not listed)")
	}
	if got := w.MinutesUntilEnd(Instant{time.Monday, 1380}); got != 180 {
		t.Errorf("remaining at Monday 23:00 = %d, want 180", got)
	}
	if got := w.MinutesUntilEnd(Instant{time.Tuesday, 60}); got != 60 {
		t.Errorf("remaining at Tuesday 01:00 = %d, want 60", got)
	}
}

func TestWindow_OvernightOnConsecutiveDays(t *testing.T) {
	// Listed on both days: Tuesday 01:00 belongs to Monday's overflow even
	// though Tuesday's own window has not started yet.
	w := Window{Days: NewWeekdays(time.Monday, time.Tuesday), StartMinutes: 1320, EndMinutes: 1560}

	if got := w.MinutesUntilEnd(Instant{time.Tuesday, 60}); got != 60 {
		t.Errorf("remaining at Tuesday 01:00 = %d, want 60", got)
	}
	if w.Contains(Instant{time.Tuesday, 600}) {
		t.Error("expected closed Tuesday 10:00")
	}
	if !w.Contains(Instant{time.Wednesday, 119}) {
		t.Error("expected open Wednesday 01:59")
	}
}

func TestWindow_SaturdayWrapsToSunday(t *testing.T) {
	w := Window{Days: NewWeekdays(time.Saturday), StartMinutes: 1200, EndMinutes: 1500}
	if !w.Contains(Instant{time.Sunday, 30}) {
		t.Error("expected Saturday window to continue into Sunday")
	}
	if w.Contains(Instant{time.Sunday, 60}) {
		t.Error("expected closed Sunday 01:00")
	}
}

// Exhaustively compare against the membership definition for every minute
// of the week.
func TestWindow_MembershipProperty(t *testing.T) {
	windows := []Window{
		{Days: NewWeekdays(time.Monday), StartMinutes: 0, EndMinutes: 1},
		{Days: NewWeekdays(time.Friday, time.Sunday), StartMinutes: 600, EndMinutes: 1440},
		{Days: NewWeekdays(time.Monday, time.Tuesday), StartMinutes: 1320, EndMinutes: 1560},
		{Days: NewWeekdays(time.Saturday), StartMinutes: 0, EndMinutes: 2880},
		{Days: NewWeekdays(time.Wednesday), StartMinutes: 720, EndMinutes: 720 + 1440},
	}
	for _, w := range windows {
		for day := time.Sunday; day <= time.Saturday; day++ {
			prev := (day + 6) % 7
			for m := 0; m < MinutesPerDay; m++ {
				var want bool
				if w.EndMinutes <= MinutesPerDay {
					want = w.Days.Has(day) && m >= w.StartMinutes && m < w.EndMinutes
				} else {
					want = (w.Days.Has(day) && m >= w.StartMinutes) ||
						(w.Days.Has(prev) && m < w.EndMinutes-MinutesPerDay)
				}
				at := Instant{day, m}
				if got := w.Contains(at); got != want {
					t.Fatalf("%v Contains(%v) = %t, want %t", w, at, got, want)
				}
				if r := w.MinutesUntilEnd(at); want && r <= 0 {
					t.Fatalf("%v MinutesUntilEnd(%v) = %d, want positive", w, at, r)
				}
			}
		}
	}
}

func TestWeekdays(t *testing.T) {
	w := NewWeekdays(time.Friday, time.Monday, time.Friday)
	if got := w.Days(); len(got) != 2 || got[0] != time.Monday || got[1] != time.Friday {
		t.Errorf("Days() = %v, want [Monday Friday]", got)
	}
	if w.Has(time.Sunday) {
		t.Error("Sunday should not be a member")
	}
	if got := w.String(); got != "Mon,Fri" {
		t.Errorf("String() = %q, want %q", got, "Mon,Fri")
	}
}

func TestInstantOf(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-01-01 is a Monday.
	got := InstantOf(time.Date(2024, time.January, 1, 23, 5, 42, 0, time.UTC), tokyo)
	want := Instant{Day: time.Tuesday, Minute: 8*60 + 5}
	if got != want {
		t.Errorf("InstantOf = %+v, want %+v", got, want)
	}

	local := InstantOf(time.Date(2024, time.January, 1, 23, 5, 0, 0, time.UTC), nil)
	if local != (Instant{Day: time.Monday, Minute: 23*60 + 5}) {
		t.Errorf("InstantOf(nil loc) = %+v", local)
	}
}

func TestWindow_String(t *testing.T) {
	w := Window{Days: NewWeekdays(time.Monday), StartMinutes: 1320, EndMinutes: 1560}
	if got := w.String(); got != "Mon 22:00-02:00" {
		t.Errorf("String() = %q", got)
	}
}
