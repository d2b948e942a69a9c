package events

import (
	"context"
	"time"
)

// Topic suffixes, joined to the configured prefix. Every payload carries a
// random ID so consumers can drop redeliveries.
const (
	TopicTransition = "gate.transition"
	TopicWarning    = "gate.warning"
	TopicEvict      = "sessions.evict"
)

// Transition is published whenever the gate changes state.
type Transition struct {
	ID   string    `json:"id"`
	From string    `json:"from"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

// Warning is published for every closure warning broadcast.
type Warning struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Evict is published when non-exempt sessions are evicted on close.
type Evict struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
