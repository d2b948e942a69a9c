package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"timegate/internal/domain"
	"timegate/internal/logging"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full or three-letter day names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdayNames[key]; ok {
		return d, nil
	}
	if len(key) == 3 {
		for name, d := range weekdayNames {
			if strings.HasPrefix(name, key) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// ParseClock converts "H:mm" or "HH:mm" to minutes after midnight.
// "24:00" is accepted and yields MinutesPerDay.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || h == "" || len(h) > 2 {
		return 0, fmt.Errorf("time %q must look like H:mm", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("time %q: bad hour", s)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("time %q: bad minute", s)
	}
	if minutes < 0 || minutes > 59 || hours < 0 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hours*60 + minutes, nil
}

// ParseEntry validates one timetable entry. An end at or before the start
// makes the window run past midnight into the next day.
func ParseEntry(e EntryFile) (domain.Window, error) {
	if len(e.Days) == 0 {
		return domain.Window{}, fmt.Errorf("days is empty")
	}
	var days domain.Weekdays
	for _, s := range e.Days {
		d, err := ParseWeekday(s)
		if err != nil {
			return domain.Window{}, err
		}
		days |= domain.NewWeekdays(d)
	}

	start, err := ParseClock(e.Start)
	if err != nil {
		return domain.Window{}, fmt.Errorf("start: %w", err)
	}
	if start >= domain.MinutesPerDay {
		return domain.Window{}, fmt.Errorf("start %q must be before 24:00", e.Start)
	}
	end, err := ParseClock(e.End)
	if err != nil {
		return domain.Window{}, fmt.Errorf("end: %w", err)
	}
	if end <= start {
		end += domain.MinutesPerDay
	}
	return domain.Window{Days: days, StartMinutes: start, EndMinutes: end}, nil
}

// SanitizeIntervals drops non-positive and repeated intervals, keeping the
// configured order.
func SanitizeIntervals(in []int) []int {
	out := make([]int, 0, len(in))
	seen := make(map[int]bool, len(in))
	for _, v := range in {
		if v <= 0 {
			logging.Warnf("warning interval %d ignored: must be positive", v)
			continue
		}
		if seen[v] {
			logging.Warnf("warning interval %d ignored: duplicate", v)
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
