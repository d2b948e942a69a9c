package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"timegate/internal/domain"
	"timegate/internal/logging"
)

// GateUseCase is the primary port for gate operations.
// CLI and web adapters depend on this interface only.
type GateUseCase interface {
	Start(ctx context.Context)
	Stop()
	Status() Status
	SetOverrideMode(mode domain.OverrideMode) Status
	Reload() error
	Join(s domain.Session) (Admission, error)
	Leave(id string) bool
	Sessions() []domain.Session
}

// Status is a point-in-time view of the gate for clients.
type Status struct {
	State         domain.GateState
	Mode          domain.OverrideMode
	Motd          string
	Timezone      string
	Windows       []domain.Window
	Sessions      int
	Remaining     int // minutes until the current window closes, -1 if none
	LastWarning   string
	LastWarningAt time.Time
	CheckInterval time.Duration
}

// Admission is the outcome of a join attempt.
type Admission struct {
	Allowed bool
	Reason  string
}

// Deps are the secondary ports the gate use case is wired with.
type Deps struct {
	Config   domain.ConfigRepository
	Sessions domain.SessionRegistry
	// Listener receives gate events in addition to the built-in logging,
	// eviction and status listeners. Optional.
	Listener      domain.Listener
	CheckInterval time.Duration
	Clock         func() time.Time
}

// gateInteractor implements GateUseCase.
type gateInteractor struct {
	config     domain.ConfigRepository
	sessions   domain.SessionRegistry
	controller *Controller
	driver     *Driver
	now        func() time.Time
	recorder   *warningRecorder
}

// NewGateUseCase wires the controller, the driver and the listeners.
func NewGateUseCase(deps Deps) (GateUseCase, error) {
	if deps.Config == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("config and sessions are required")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	recorder := &warningRecorder{now: now}
	listeners := domain.Listeners{
		logListener{},
		&evictor{sessions: deps.Sessions, config: deps.Config},
		recorder,
	}
	if deps.Listener != nil {
		listeners = append(listeners, deps.Listener)
	}

	controller := NewController(deps.Config, listeners, WithClock(now))
	logging.Infof("initial gate state %s", controller.State())

	return &gateInteractor{
		config:     deps.Config,
		sessions:   deps.Sessions,
		controller: controller,
		driver:     NewDriver(controller, deps.CheckInterval),
		now:        now,
		recorder:   recorder,
	}, nil
}

// Start begins periodic evaluation.
func (g *gateInteractor) Start(ctx context.Context) {
	g.driver.Start(ctx)
}

// Stop ends periodic evaluation; no tick runs after it returns.
func (g *gateInteractor) Stop() {
	g.driver.Stop()
}

// Status returns the current gate view.
func (g *gateInteractor) Status() Status {
	sched := g.config.Schedule()
	state := g.controller.State()
	remaining := -1
	if state == domain.StateOpen {
		if r, ok := domain.RemainingMinutes(sched.Windows, sched.Instant(g.now())); ok {
			remaining = r
		}
	}
	tz := "Local"
	if sched.Location != nil {
		tz = sched.Location.String()
	}
	msg, at := g.recorder.last()
	return Status{
		State:         state,
		Mode:          g.controller.Mode(),
		Motd:          g.config.Messages().Motd(state),
		Timezone:      tz,
		Windows:       sched.Windows,
		Sessions:      len(g.sessions.List()),
		Remaining:     remaining,
		LastWarning:   msg,
		LastWarningAt: at,
		CheckInterval: g.driver.Interval(),
	}
}

// SetOverrideMode applies an operator override and returns the resulting status.
func (g *gateInteractor) SetOverrideMode(mode domain.OverrideMode) Status {
	g.controller.SetOverrideMode(mode)
	return g.Status()
}

// Reload re-reads configuration and re-evaluates the gate against it.
func (g *gateInteractor) Reload() error {
	if err := g.config.Reload(); err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	g.controller.Reevaluate()
	logging.Infof("configuration reloaded, %d windows", len(g.config.Schedule().Windows))
	return nil
}

// Join admits a session while open, and only exempt sessions while closed.
func (g *gateInteractor) Join(s domain.Session) (Admission, error) {
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" {
		return Admission{}, domain.ErrInvalidSession
	}
	if !g.admissible(s) {
		logging.Debugf("join denied: %s", s.ID)
		return Admission{Allowed: false, Reason: g.config.Messages().Deny}, nil
	}
	if s.JoinedAt.IsZero() {
		s.JoinedAt = g.now()
	}
	g.sessions.Add(s)

	// The gate may have closed between the check and the add, after the
	// eviction already ran.
	if !g.admissible(s) {
		g.sessions.Remove(s.ID)
		return Admission{Allowed: false, Reason: g.config.Messages().Deny}, nil
	}
	logging.Debugf("join admitted: %s (exempt=%t)", s.ID, s.Exempt)
	return Admission{Allowed: true}, nil
}

func (g *gateInteractor) admissible(s domain.Session) bool {
	return s.Exempt || g.controller.State() == domain.StateOpen
}

// Leave removes a session.
func (g *gateInteractor) Leave(id string) bool {
	return g.sessions.Remove(id)
}

// Sessions lists admitted sessions.
func (g *gateInteractor) Sessions() []domain.Session {
	return g.sessions.List()
}

type logListener struct{}

func (logListener) OnTransition(from, to domain.GateState) {
	logging.Warnf("gate is now %s (was %s)", to, from)
}

func (logListener) OnEvictNonExempt() {}

func (logListener) OnBroadcast(message string) {
	logging.Infof("broadcast: %s", message)
}

type evictor struct {
	sessions domain.SessionRegistry
	config   domain.ConfigRepository
}

func (e *evictor) OnTransition(domain.GateState, domain.GateState) {}

func (e *evictor) OnEvictNonExempt() {
	evicted := e.sessions.EvictNonExempt()
	msg := e.config.Messages().Evict
	for _, s := range evicted {
		logging.Infof("evicted session %s: %s", s.ID, msg)
	}
}

func (e *evictor) OnBroadcast(string) {}

// warningRecorder remembers the last broadcast for status views.
type warningRecorder struct {
	now func() time.Time

	mu      sync.Mutex
	message string
	at      time.Time
}

func (r *warningRecorder) OnTransition(domain.GateState, domain.GateState) {}

func (r *warningRecorder) OnEvictNonExempt() {}

func (r *warningRecorder) OnBroadcast(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message = message
	r.at = r.now()
}

func (r *warningRecorder) last() (string, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message, r.at
}
