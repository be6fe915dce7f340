package circuit

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"metaverse-session/source/protocol"
)

// dedupWindow matches the bounded FIFO window size the teacher's RakNet
// session used for its ACK/NACK queues.
const dedupWindow = 1024

// Circuit owns one reliable UDP conversation with a simulator: sequence
// assignment, the reliability table, inbound dedup, pending acks and
// ping state. It is used exclusively from the Mailbox's event loop, so
// none of its state needs its own locking (§5).
type Circuit struct {
	conn       *net.UDPConn
	remote     *net.UDPAddr
	nextSeq    uint32
	reliable   *ReliabilityTable
	dedup      *InboundDedup
	pending    *PendingAcks
	ping       *PingState
}

// NewCircuit wires a Circuit around an already-bound UDP socket talking
// to remote.
func NewCircuit(conn *net.UDPConn, remote *net.UDPAddr, now time.Time) *Circuit {
	return &Circuit{
		conn:     conn,
		remote:   remote,
		reliable: NewReliabilityTable(),
		dedup:    NewInboundDedup(dedupWindow),
		pending:  NewPendingAcks(),
		ping:     NewPingState(now),
	}
}

func (c *Circuit) nextSequence() uint32 {
	return atomic.AddUint32(&c.nextSeq, 1)
}

// Outbound is a fully-formed packet ready to be framed and sent.
type Outbound struct {
	Frequency protocol.Frequency
	ID        uint32
	Body      protocol.Body
	Reliable  bool
	ZeroCode  bool
}

// Send implements the §4.3 outbound path: assign the next sequence
// number, register it in the reliability table if Reliable, piggy-back
// up to ackPiggybackMax pending acks, zero-encode if requested, and
// write the framed datagram to the socket.
func (c *Circuit) Send(o Outbound, now time.Time) (uint32, error) {
	seq := c.nextSequence()

	body := o.Body.ToBytes()
	if o.ZeroCode {
		body = protocol.ZeroEncode(body)
	}

	h := protocol.Header{
		ZeroCoded: o.ZeroCode,
		Reliable:  o.Reliable,
		Sequence:  seq,
		Frequency: o.Frequency,
		ID:        o.ID,
	}

	if acks := c.pending.DrainUpTo(ackPiggybackMax); len(acks) > 0 {
		h.AppendedAcks = true
		body = protocol.AppendAcks(body, acks)
	}

	raw := append(protocol.EncodeHeader(h), body...)

	if o.Reliable {
		c.reliable.Insert(seq, raw, now)
	}

	if _, err := c.conn.WriteToUDP(raw, c.remote); err != nil {
		return seq, errors.Wrap(err, "circuit: send")
	}
	return seq, nil
}

// ackPiggybackMax bounds how many pending acks ride on a single
// outbound packet's tail before a dedicated PacketAck is warranted.
const ackPiggybackMax = 255

// Inbound is a decoded datagram handed back to the Mailbox, along with
// any acks the appended-acks tail delivered to our reliability table.
type Inbound struct {
	Header       protocol.Header
	Body         protocol.Body
	Duplicate    bool
	AckedByTail  []uint32
}

// Receive implements the §4.3 inbound path: decode the header, strip and
// apply any appended acks, dedup reliable packets, zero-decode the body
// and dispatch to the codec's body decoder.
func (c *Circuit) Receive(raw []byte, now time.Time) (Inbound, error) {
	h, bodyOffset, err := protocol.DecodeHeader(raw)
	if err != nil {
		return Inbound{}, errors.Wrap(err, "circuit: decode header")
	}
	body := raw[bodyOffset:]

	var delivered []uint32
	if h.AppendedAcks {
		acks, remainder, err := protocol.StripAppendedAcks(body)
		if err != nil {
			return Inbound{}, errors.Wrap(err, "circuit: strip appended acks")
		}
		for _, a := range acks {
			if c.reliable.Ack(a) {
				delivered = append(delivered, a)
			}
		}
		body = remainder
	}

	c.ping.Touch(now)

	if h.Reliable {
		if c.dedup.SeenOrInsert(h.Sequence) {
			return Inbound{Header: h, Duplicate: true, AckedByTail: delivered}, nil
		}
		c.pending.Add(h.Sequence, now)
	}

	if h.ZeroCoded {
		body = protocol.ZeroDecode(body)
	}

	parsed, err := protocol.DecodeBody(h.ID, h.Frequency, body)
	if err != nil {
		return Inbound{Header: h, AckedByTail: delivered}, errors.Wrap(err, "circuit: decode body")
	}

	return Inbound{Header: h, Body: parsed, AckedByTail: delivered}, nil
}

// ShouldFlushAcks reports whether the Mailbox should send a dedicated
// PacketAck now because the ack policy calls for one (queue over the
// high-water mark, or aged past ackMaxAge with nothing to piggy-back
// on).
func (c *Circuit) ShouldFlushAcks(now time.Time) bool {
	return c.pending.ShouldFlush(now)
}

// FlushAcks drains all pending acks for a dedicated PacketAck send.
func (c *Circuit) FlushAcks() []uint32 {
	return c.pending.DrainUpTo(c.pending.Len())
}

// ObservePing records an inbound StartPingCheck and reports the ping id
// the Mailbox should echo back in a CompletePingCheck.
func (c *Circuit) ObservePing(pingID uint8, oldestUnacked uint32, now time.Time) uint8 {
	return c.ping.ObservePing(pingID, oldestUnacked, now)
}

// IdleExpired reports whether the circuit has gone silent past the idle
// timeout and the Mailbox should terminate the session.
func (c *Circuit) IdleExpired(now time.Time) bool {
	return c.ping.Expired(now)
}

// RetransmitDue returns the packets due for resend or abandonment at
// now; the caller (Mailbox) is responsible for re-sending with the
// Resent flag set (already encoded into Packet bytes at first send, so
// Circuit rewrites just the flag byte in place here) and for raising
// DeliveryFailed on exhausted entries.
func (c *Circuit) RetransmitDue(now time.Time) []DueEntry {
	due := c.reliable.ScanDue(now)
	for i := range due {
		if !due[i].Exhausted {
			markResent(due[i].Packet)
		}
	}
	return due
}

// markResent flips the Resent flag bit in an already-encoded datagram's
// header byte in place, preserving its sequence number as required by
// §4.3.
func markResent(raw []byte) {
	if len(raw) == 0 {
		return
	}
	raw[0] |= 0x20
}

// Ack applies a single sequence-number acknowledgment to the
// reliability table, for acks delivered via a dedicated PacketAck body
// rather than an appended-acks tail.
func (c *Circuit) Ack(seq uint32) bool {
	return c.reliable.Ack(seq)
}

// PendingAckCount exposes the current PendingAcks depth, mostly for
// tests and diagnostics.
func (c *Circuit) PendingAckCount() int {
	return c.pending.Len()
}

// ReliableOutstanding exposes the current ReliabilityTable depth.
func (c *Circuit) ReliableOutstanding() int {
	return c.reliable.Len()
}

// RetransmitTick is the recommended scan interval for RetransmitDue,
// per §4.3's "every 100-250ms" guidance.
const RetransmitTick = retransmitTick
