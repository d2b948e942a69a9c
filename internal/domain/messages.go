package domain

// Messages are the operator-configured texts shown to clients. The engine
// never formats them beyond choosing which one applies.
type Messages struct {
	MotdOpen   string
	MotdClosed string
	Deny       string
	Evict      string
}

// Motd returns the message of the day for the given state.
func (m Messages) Motd(s GateState) string {
	if s == StateOpen {
		return m.MotdOpen
	}
	return m.MotdClosed
}
