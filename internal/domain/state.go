package domain

import "strings"

// GateState is the externally observable gating decision.
type GateState int

const (
	StateClosed GateState = iota
	StateOpen
)

func (s GateState) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// OverrideMode is the operator-controlled manual override.
type OverrideMode int

const (
	// ModeAuto follows the schedule. It is the zero value so a fresh
	// process always starts in automatic mode.
	ModeAuto OverrideMode = iota
	ModeForceOpen
	ModeForceClosed
)

func (m OverrideMode) String() string {
	switch m {
	case ModeAuto:
		return "AUTO"
	case ModeForceOpen:
		return "FORCE_OPEN"
	case ModeForceClosed:
		return "FORCE_CLOSED"
	default:
		return "UNKNOWN"
	}
}

// ParseOverrideMode converts operator input into an OverrideMode.
func ParseOverrideMode(s string) (OverrideMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "none":
		return ModeAuto, nil
	case "open", "force_open", "force-open":
		return ModeForceOpen, nil
	case "closed", "close", "force_closed", "force-closed":
		return ModeForceClosed, nil
	default:
		return ModeAuto, ErrInvalidOverrideMode
	}
}

// Evaluate folds the override and the windows into one state. Under
// ModeAuto the first window in list order that contains at opens the gate.
func Evaluate(windows []Window, mode OverrideMode, at Instant) GateState {
	switch mode {
	case ModeForceOpen:
		return StateOpen
	case ModeForceClosed:
		return StateClosed
	}
	if _, ok := matchWindow(windows, at); ok {
		return StateOpen
	}
	return StateClosed
}

// RemainingMinutes returns the minutes until the first matching window
// closes. It resolves windows exactly like Evaluate does.
func RemainingMinutes(windows []Window, at Instant) (int, bool) {
	i, ok := matchWindow(windows, at)
	if !ok {
		return 0, false
	}
	return windows[i].MinutesUntilEnd(at), true
}

func matchWindow(windows []Window, at Instant) (int, bool) {
	for i, w := range windows {
		if w.MinutesUntilEnd(at) >= 0 {
			return i, true
		}
	}
	return -1, false
}
