package usecase

import (
	"sync"
	"time"

	"timegate/internal/domain"
	"timegate/internal/logging"
)

// Controller is the gate state machine instance. It feeds events through
// HandleEvent and executes the resulting effects on its listener, all inside
// one critical section so no transition or warning is duplicated or lost.
type Controller struct {
	source   domain.ScheduleSource
	listener domain.Listener
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithClock replaces time.Now as the controller's clock.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController evaluates the initial state once, without firing the
// listener, so the controller is never observed unevaluated.
func NewController(source domain.ScheduleSource, listener domain.Listener, opts ...ControllerOption) *Controller {
	if listener == nil {
		listener = domain.Listeners(nil)
	}
	c := &Controller{
		source:   source,
		listener: listener,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	sched := source.Schedule()
	c.state = State{
		Gate: domain.Evaluate(sched.Windows, domain.ModeAuto, sched.Instant(c.now())),
		Mode: domain.ModeAuto,
	}
	return c
}

// State returns the current gate state.
func (c *Controller) State() domain.GateState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Gate
}

// Mode returns the current override mode.
func (c *Controller) Mode() domain.OverrideMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode
}

// SetOverrideMode switches the mode and applies any resulting transition,
// including eviction, before returning.
func (c *Controller) SetOverrideMode(mode domain.OverrideMode) {
	logging.Infof("override mode -> %s", mode)
	c.dispatch(Event{Type: EventSetMode, Mode: mode})
}

// Reevaluate forgets sent warnings and re-evaluates against the current
// snapshot. Call it after the schedule source has been reloaded.
func (c *Controller) Reevaluate() {
	c.dispatch(Event{Type: EventReevaluate})
}

// Tick re-evaluates against the current snapshot and clock.
func (c *Controller) Tick() {
	c.dispatch(Event{Type: EventTick})
}

// TickAt runs one periodic evaluation at an explicit instant.
func (c *Controller) TickAt(sched domain.Schedule, at domain.Instant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handleLocked(Event{Type: EventTick}, sched, at)
}

func (c *Controller) dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sched := c.source.Schedule()
	c.handleLocked(ev, sched, sched.Instant(c.now()))
}

func (c *Controller) handleLocked(ev Event, sched domain.Schedule, at domain.Instant) {
	logging.Tracef("%s at %s %s", ev.Type, at.Day, domain.FormatClock(at.Minute))
	next, effects, err := HandleEvent(c.state, ev, sched, at)
	if err != nil {
		logging.Errorf("gate event %s: %v", ev.Type, err)
		return
	}
	c.state = next
	for _, eff := range effects {
		c.execute(eff)
	}
}

func (c *Controller) execute(eff Effect) {
	switch eff.Type {
	case EffectEvict:
		logging.Infof("evicting non-exempt sessions")
		c.listener.OnEvictNonExempt()
	case EffectTransition:
		logging.Infof("gate state %s -> %s", eff.From, eff.To)
		c.listener.OnTransition(eff.From, eff.To)
	case EffectBroadcast:
		c.listener.OnBroadcast(eff.Message)
	}
}
