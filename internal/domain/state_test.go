package domain

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

var (
	evening  = Window{Days: NewWeekdays(time.Monday), StartMinutes: 18 * 60, EndMinutes: 23 * 60}
	longEve  = Window{Days: NewWeekdays(time.Monday), StartMinutes: 17 * 60, EndMinutes: 1440 + 60}
	mondayAt = func(h, m int) Instant { return Instant{Day: time.Monday, Minute: h*60 + m} }
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		windows []Window
		mode    OverrideMode
		at      Instant
		want    GateState
	}{
		{"auto empty list is closed", nil, ModeAuto, mondayAt(19, 0), StateClosed},
		{"auto inside", []Window{evening}, ModeAuto, mondayAt(19, 0), StateOpen},
		{"auto outside", []Window{evening}, ModeAuto, mondayAt(12, 0), StateClosed},
		{"auto second window matches", []Window{evening, longEve}, ModeAuto, mondayAt(17, 30), StateOpen},
		{"force open without windows", nil, ModeForceOpen, mondayAt(3, 0), StateOpen},
		{"force closed inside window", []Window{evening}, ModeForceClosed, mondayAt(19, 0), StateClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.windows, tt.mode, tt.at); got != tt.want {
				t.Errorf("Evaluate() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRemainingMinutes_FirstMatchWins(t *testing.T) {
	// Both windows contain 19:00; list order decides which end counts.
	got, ok := RemainingMinutes([]Window{evening, longEve}, mondayAt(19, 0))
	if !ok || got != 240 {
		t.Errorf("RemainingMinutes(evening first) = %d, %t; want 240, true", got, ok)
	}
	got, ok = RemainingMinutes([]Window{longEve, evening}, mondayAt(19, 0))
	if !ok || got != 360 {
		t.Errorf("RemainingMinutes(longEve first) = %d, %t; want 360, true", got, ok)
	}
	if _, ok := RemainingMinutes([]Window{evening}, mondayAt(9, 0)); ok {
		t.Error("RemainingMinutes outside any window should report false")
	}
}

func TestParseOverrideMode(t *testing.T) {
	tests := []struct {
		in   string
		want OverrideMode
	}{
		{"auto", ModeAuto},
		{"NONE", ModeAuto},
		{"open", ModeForceOpen},
		{"FORCE_OPEN", ModeForceOpen},
		{" closed ", ModeForceClosed},
		{"close", ModeForceClosed},
		{"force-closed", ModeForceClosed},
	}
	for _, tt := range tests {
		got, err := ParseOverrideMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseOverrideMode(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseOverrideMode("sometimes"); !errors.Is(err, ErrInvalidOverrideMode) {
		t.Errorf("ParseOverrideMode(sometimes) error = %v, want ErrInvalidOverrideMode", err)
	}
}

func TestStrings(t *testing.T) {
	if StateOpen.String() != "OPEN" || StateClosed.String() != "CLOSED" {
		t.Error("unexpected GateState strings")
	}
	if ModeAuto.String() != "AUTO" || ModeForceOpen.String() != "FORCE_OPEN" || ModeForceClosed.String() != "FORCE_CLOSED" {
		t.Error("unexpected OverrideMode strings")
	}
	var zero OverrideMode
	if zero != ModeAuto {
		t.Error("zero OverrideMode must be ModeAuto")
	}
}

func TestListeners_FanOutInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockListener(ctrl)
	second := NewMockListener(ctrl)

	gomock.InOrder(
		first.EXPECT().OnTransition(StateOpen, StateClosed),
		second.EXPECT().OnTransition(StateOpen, StateClosed),
		first.EXPECT().OnEvictNonExempt(),
		second.EXPECT().OnEvictNonExempt(),
		first.EXPECT().OnBroadcast("closing"),
		second.EXPECT().OnBroadcast("closing"),
	)

	ls := Listeners{first, second}
	ls.OnTransition(StateOpen, StateClosed)
	ls.OnEvictNonExempt()
	ls.OnBroadcast("closing")
}

func TestMessages_Motd(t *testing.T) {
	m := Messages{MotdOpen: "welcome", MotdClosed: "come back later"}
	if m.Motd(StateOpen) != "welcome" || m.Motd(StateClosed) != "come back later" {
		t.Error("Motd picked the wrong message")
	}
}
