package circuit

import "time"

// PendingAcks holds inbound reliable sequence numbers awaiting outbound
// acknowledgment, in FIFO arrival order so piggy-backed or dedicated
// PacketAck tails preserve that order per §4.3.
type PendingAcks struct {
	queue   []uint32
	oldest  time.Time
	hasOld  bool
}

// NewPendingAcks returns an empty ack queue.
func NewPendingAcks() *PendingAcks {
	return &PendingAcks{}
}

// Add enqueues seq for acknowledgment.
func (p *PendingAcks) Add(seq uint32, now time.Time) {
	if len(p.queue) == 0 {
		p.oldest = now
		p.hasOld = true
	}
	p.queue = append(p.queue, seq)
}

// Len reports the number of unacknowledged inbound sequence numbers.
func (p *PendingAcks) Len() int {
	return len(p.queue)
}

// DrainUpTo removes and returns up to n pending acks in FIFO order.
func (p *PendingAcks) DrainUpTo(n int) []uint32 {
	if n > len(p.queue) {
		n = len(p.queue)
	}
	out := p.queue[:n]
	p.queue = p.queue[n:]
	if len(p.queue) == 0 {
		p.hasOld = false
	} else {
		p.hasOld = true
	}
	return out
}

// ShouldFlush reports whether the ack policy in §4.3 calls for a
// dedicated PacketAck right now: the queue is over the high-water mark,
// or it has held entries longer than ackMaxAge with nothing to
// piggy-back on.
func (p *PendingAcks) ShouldFlush(now time.Time) bool {
	if len(p.queue) == 0 {
		return false
	}
	if len(p.queue) >= ackHighWater {
		return true
	}
	return p.hasOld && now.Sub(p.oldest) >= ackMaxAge
}
