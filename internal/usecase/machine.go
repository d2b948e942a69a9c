package usecase

import (
	"fmt"

	"timegate/internal/domain"
)

// HandleEvent is a pure function that takes current state and an event,
// evaluated against sched at the given instant, and returns the new state
// along with effects to be executed in order.
func HandleEvent(state State, event Event, sched domain.Schedule, at domain.Instant) (State, []Effect, error) {
	switch event.Type {
	case EventTick:
		return handleTick(state, sched, at)
	case EventSetMode:
		state.Mode = event.Mode
		next, effects := transition(state, sched, at)
		return next, effects, nil
	case EventReevaluate:
		state.SentWarnings = nil
		next, effects := transition(state, sched, at)
		return next, effects, nil
	default:
		return state, nil, fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func handleTick(state State, sched domain.Schedule, at domain.Instant) (State, []Effect, error) {
	next, effects := transition(state, sched, at)
	if next.Gate != domain.StateOpen || next.Mode != domain.ModeAuto {
		return next, effects, nil
	}
	next, warning, ok := checkWarnings(next, sched, at)
	if ok {
		effects = append(effects, warning)
	}
	return next, effects, nil
}

// transition re-evaluates the gate. A change of state resets the sent
// warnings in either direction, since each edge starts a fresh closure cycle.
func transition(state State, sched domain.Schedule, at domain.Instant) (State, []Effect) {
	gate := domain.Evaluate(sched.Windows, state.Mode, at)
	if gate == state.Gate {
		return state, nil
	}

	var effects []Effect
	if gate == domain.StateClosed && sched.EvictOnClose {
		effects = append(effects, Effect{Type: EffectEvict})
	}
	effects = append(effects, Effect{Type: EffectTransition, From: state.Gate, To: gate})

	state.Gate = gate
	state.SentWarnings = nil
	return state, effects
}

// checkWarnings emits at most one warning: the first configured interval
// already reached and not yet announced. The message carries the actual
// remaining minutes, not the threshold.
func checkWarnings(state State, sched domain.Schedule, at domain.Instant) (State, Effect, bool) {
	remaining, ok := domain.RemainingMinutes(sched.Windows, at)
	if !ok {
		return state, Effect{}, false
	}
	for _, interval := range sched.Warnings.Intervals {
		if remaining <= interval && !state.sent(interval) {
			return state.withSent(interval), Effect{
				Type:    EffectBroadcast,
				Message: sched.Warnings.Format(remaining),
			}, true
		}
	}
	return state, Effect{}, false
}
