package domain

//go:generate mockgen -source=listener.go -destination=listener_mock.go -package=domain

// Listener receives the gate's side effects. Calls are made from inside the
// controller's critical section, so implementations must not call back into
// the controller.
type Listener interface {
	OnTransition(from, to GateState)
	OnEvictNonExempt()
	OnBroadcast(message string)
}

// Listeners fans every callback out to each member in order.
type Listeners []Listener

func (ls Listeners) OnTransition(from, to GateState) {
	for _, l := range ls {
		l.OnTransition(from, to)
	}
}

func (ls Listeners) OnEvictNonExempt() {
	for _, l := range ls {
		l.OnEvictNonExempt()
	}
}

func (ls Listeners) OnBroadcast(message string) {
	for _, l := range ls {
		l.OnBroadcast(message)
	}
}
