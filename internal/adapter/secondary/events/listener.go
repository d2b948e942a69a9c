package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"timegate/internal/domain"
	"timegate/internal/logging"
)

// publishTimeout bounds a single publish so a stalled broker cannot hold
// the gate's critical section for long.
const publishTimeout = 2 * time.Second

// Listener adapts a Publisher to domain.Listener. Publish failures are
// logged and never reach the gate.
type Listener struct {
	pub    Publisher
	prefix string
	now    func() time.Time
	newID  func() string
}

// NewListener publishes gate events under prefix (e.g. "timegate").
func NewListener(pub Publisher, prefix string) *Listener {
	return &Listener{pub: pub, prefix: strings.TrimSuffix(prefix, "."), now: time.Now, newID: uuid.NewString}
}

// Subject returns the full subject for a topic suffix.
func (l *Listener) Subject(topic string) string {
	if l.prefix == "" {
		return topic
	}
	return l.prefix + "." + topic
}

func (l *Listener) OnTransition(from, to domain.GateState) {
	l.publish(TopicTransition, Transition{ID: l.newID(), From: from.String(), To: to.String(), At: l.now()})
}

func (l *Listener) OnEvictNonExempt() {
	l.publish(TopicEvict, Evict{ID: l.newID(), At: l.now()})
}

func (l *Listener) OnBroadcast(message string) {
	l.publish(TopicWarning, Warning{ID: l.newID(), Message: message, At: l.now()})
}

func (l *Listener) publish(topic string, event any) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	subject := l.Subject(topic)
	if err := l.pub.Publish(ctx, subject, event); err != nil {
		logging.Errorf("publish %s: %v", subject, err)
	}
}
