package domain

import "time"

// ScheduleSource is a secondary port supplying the current schedule snapshot.
// Implementations swap the snapshot atomically on reload.
type ScheduleSource interface {
	Schedule() Schedule
}

// Session is one connected client subject to gating.
type Session struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Exempt   bool      `json:"exempt"`
	JoinedAt time.Time `json:"joinedAt"`
}

// SessionRegistry is a secondary port tracking admitted sessions.
// What makes a session exempt is decided by whoever adds it.
type SessionRegistry interface {
	Add(s Session)
	Remove(id string) bool
	List() []Session
	EvictNonExempt() []Session
}

// ConfigRepository is a secondary port that loads the schedule and the
// client-facing messages. Reload swaps both wholesale; a failed reload keeps
// the previous snapshot.
type ConfigRepository interface {
	ScheduleSource
	Messages() Messages
	Reload() error
}
