package usecase

import "timegate/internal/domain"

// EffectType represents the type of side effect to be performed.
type EffectType string

const (
	EffectEvict      EffectType = "EvictNonExempt"
	EffectTransition EffectType = "Transition"
	EffectBroadcast  EffectType = "Broadcast"
)

// Effect represents a side effect that the controller hands to its listener.
// HandleEvent produces Effects without executing them, maintaining purity.
type Effect struct {
	Type    EffectType
	From    domain.GateState
	To      domain.GateState
	Message string
}

// EventType represents the type of event.
type EventType string

const (
	EventTick       EventType = "Tick"
	EventSetMode    EventType = "SetMode"
	EventReevaluate EventType = "Reevaluate"
)

// Event represents an input to the state machine.
type Event struct {
	Type EventType
	Mode domain.OverrideMode // EventSetMode only
}

// State is the gate machine's full state.
type State struct {
	Gate domain.GateState
	Mode domain.OverrideMode
	// SentWarnings holds the thresholds already announced since the last
	// transition. HandleEvent never mutates a map it was given.
	SentWarnings map[int]struct{}
}

func (s State) sent(interval int) bool {
	_, ok := s.SentWarnings[interval]
	return ok
}

func (s State) withSent(interval int) State {
	next := make(map[int]struct{}, len(s.SentWarnings)+1)
	for k := range s.SentWarnings {
		next[k] = struct{}{}
	}
	next[interval] = struct{}{}
	s.SentWarnings = next
	return s
}
