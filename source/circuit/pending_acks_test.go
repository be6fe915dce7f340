package circuit

import (
	"testing"
	"time"
)

func TestPendingAcksDrainFIFO(t *testing.T) {
	p := NewPendingAcks()
	now := time.Unix(1000, 0)
	p.Add(1, now)
	p.Add(2, now)
	p.Add(3, now)

	drained := p.DrainUpTo(2)
	if len(drained) != 2 || drained[0] != 1 || drained[1] != 2 {
		t.Fatalf("expected [1 2], got %v", drained)
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", p.Len())
	}
}

func TestPendingAcksShouldFlushHighWaterMark(t *testing.T) {
	p := NewPendingAcks()
	now := time.Unix(1000, 0)
	for i := 0; i < ackHighWater; i++ {
		p.Add(uint32(i), now)
	}
	if !p.ShouldFlush(now) {
		t.Error("expected flush once queue reaches high-water mark")
	}
}

func TestPendingAcksShouldFlushAge(t *testing.T) {
	p := NewPendingAcks()
	now := time.Unix(1000, 0)
	p.Add(1, now)

	if p.ShouldFlush(now) {
		t.Error("should not flush immediately")
	}
	if !p.ShouldFlush(now.Add(ackMaxAge + time.Millisecond)) {
		t.Error("expected flush once entries age past ackMaxAge")
	}
}
