package domain

import (
	"strconv"
	"strings"
	"time"
)

// MinutesPlaceholder is replaced with the remaining minutes in warning messages.
const MinutesPlaceholder = "{minutes}"

// WarningPolicy describes when closure warnings are announced.
// Intervals are minutes before close and are checked in configured order.
type WarningPolicy struct {
	Intervals []int
	Message   string
}

// Format renders the message for the given remaining minutes.
func (p WarningPolicy) Format(remaining int) string {
	return strings.ReplaceAll(p.Message, MinutesPlaceholder, strconv.Itoa(remaining))
}

// Schedule is the immutable snapshot the gate is evaluated against.
// A reload replaces it wholesale.
type Schedule struct {
	Windows      []Window
	Warnings     WarningPolicy
	EvictOnClose bool
	Location     *time.Location
}

// Instant converts t to an Instant in the schedule's time zone.
func (s Schedule) Instant(t time.Time) Instant {
	return InstantOf(t, s.Location)
}
