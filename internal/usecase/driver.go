package usecase

import (
	"context"
	"sync"
	"time"

	"timegate/internal/logging"
)

// DefaultCheckInterval is how often the gate is re-evaluated.
const DefaultCheckInterval = 60 * time.Second

// Ticker is anything the driver can tick periodically.
type Ticker interface {
	Tick()
}

// Driver ticks a Ticker on a fixed period until stopped.
type Driver struct {
	target   Ticker
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDriver creates a stopped driver. Non-positive intervals fall back to
// DefaultCheckInterval.
func NewDriver(target Ticker, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Driver{target: target, interval: interval}
}

// Interval returns the tick period.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Start launches the tick loop until ctx is cancelled or Stop is called.
// Starting a running driver is a caller error.
func (d *Driver) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	d.mu.Lock()
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()

	logging.Debugf("driver started, interval %s", d.interval)
	go d.loop(ctx, done)
}

// Stop disarms the loop. Once it returns no further tick is delivered.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logging.Debugf("driver stopped")
}

func (d *Driver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick racing with cancellation must not be delivered.
			if ctx.Err() != nil {
				return
			}
			d.target.Tick()
		}
	}
}
