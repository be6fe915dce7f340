// Package circuit implements the reliable-transport layer on top of the
// LLUDP codec: sequence assignment, retransmission, duplicate
// suppression, ping/keepalive and ack batching. It mirrors the
// outbound/inbound ReliabilityTable bookkeeping the teacher's RakNet
// session kept per-peer, generalized to the single-circuit case this
// session core needs.
package circuit

import "time"

const (
	initialRTO    = time.Second
	maxRTO        = 8 * time.Second
	maxRetries    = 5
	ackHighWater  = 250
	ackMaxAge     = 100 * time.Millisecond
	retransmitTick = 150 * time.Millisecond
)

// pendingEntry is one outstanding reliable send awaiting an ack.
type pendingEntry struct {
	packet    []byte
	firstSent time.Time
	lastSent  time.Time
	retries   int
	rto       time.Duration
}

// ReliabilityTable tracks outbound reliable packets keyed by sequence
// number until they are acked, exhaust their retries, or the circuit
// closes.
type ReliabilityTable struct {
	entries map[uint32]*pendingEntry
}

// NewReliabilityTable returns an empty table.
func NewReliabilityTable() *ReliabilityTable {
	return &ReliabilityTable{entries: make(map[uint32]*pendingEntry)}
}

// Insert records a freshly-sent reliable packet.
func (t *ReliabilityTable) Insert(seq uint32, packet []byte, now time.Time) {
	t.entries[seq] = &pendingEntry{
		packet:    packet,
		firstSent: now,
		lastSent:  now,
		rto:       initialRTO,
	}
}

// Ack removes the entry for seq, if present, reporting whether it was
// found (a no-op ack for an unknown or already-removed sequence is not
// an error).
func (t *ReliabilityTable) Ack(seq uint32) bool {
	if _, ok := t.entries[seq]; !ok {
		return false
	}
	delete(t.entries, seq)
	return true
}

// Len reports the number of outstanding reliable sends.
func (t *ReliabilityTable) Len() int {
	return len(t.entries)
}

// DueEntry describes one packet that needs to be resent or abandoned.
type DueEntry struct {
	Sequence   uint32
	Packet     []byte
	Exhausted  bool
}

// ScanDue walks the table for entries whose RTO has elapsed. Entries
// under MAX_RETRIES are returned for resend (their retry count and RTO
// are bumped, doubling up to maxRTO); entries at MAX_RETRIES are removed
// from the table and returned with Exhausted set so the caller can raise
// DeliveryFailed.
func (t *ReliabilityTable) ScanDue(now time.Time) []DueEntry {
	var due []DueEntry
	for seq, e := range t.entries {
		if now.Sub(e.lastSent) < e.rto {
			continue
		}
		if e.retries >= maxRetries {
			delete(t.entries, seq)
			due = append(due, DueEntry{Sequence: seq, Packet: e.packet, Exhausted: true})
			continue
		}
		e.retries++
		e.lastSent = now
		e.rto *= 2
		if e.rto > maxRTO {
			e.rto = maxRTO
		}
		due = append(due, DueEntry{Sequence: seq, Packet: e.packet})
	}
	return due
}
