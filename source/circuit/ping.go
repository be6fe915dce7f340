package circuit

import "time"

// idleTimeout is how long the circuit tolerates silence from the
// simulator (no inbound packet of any kind) before the Mailbox must
// treat the session as dead, per §4.3/§5.
const idleTimeout = 60 * time.Second

// PingState tracks the ping/keepalive handshake and session liveness.
type PingState struct {
	LastPingID    uint8
	OldestUnacked uint32
	LastSeen      time.Time
}

// NewPingState returns a PingState seeded with now as the last-seen
// time, so a freshly established circuit does not immediately appear
// idle.
func NewPingState(now time.Time) *PingState {
	return &PingState{LastSeen: now}
}

// Touch records that a packet was just received from the simulator.
func (p *PingState) Touch(now time.Time) {
	p.LastSeen = now
}

// ObservePing records an inbound StartPingCheck and returns the ping id
// to echo back in the CompletePingCheck reply.
func (p *PingState) ObservePing(pingID uint8, oldestUnacked uint32, now time.Time) uint8 {
	p.LastPingID = pingID
	p.OldestUnacked = oldestUnacked
	p.Touch(now)
	return pingID
}

// Expired reports whether the session has gone silent past idleTimeout.
func (p *PingState) Expired(now time.Time) bool {
	return now.Sub(p.LastSeen) >= idleTimeout
}
