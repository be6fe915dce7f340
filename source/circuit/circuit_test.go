package circuit

import (
	"net"
	"testing"
	"time"

	"metaverse-session/source/protocol"
)

func newLoopbackPair(t *testing.T) (*net.UDPConn, *net.UDPConn) {
	t.Helper()
	a, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen a: %v", err)
	}
	b, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen b: %v", err)
	}
	return a, b
}

func TestCircuitSendReceiveRoundTrip(t *testing.T) {
	a, b := newLoopbackPair(t)
	defer a.Close()
	defer b.Close()

	now := time.Unix(1000, 0)
	circuitA := NewCircuit(a, b.LocalAddr().(*net.UDPAddr), now)
	circuitB := NewCircuit(b, a.LocalAddr().(*net.UDPAddr), now)

	seq, err := circuitA.Send(Outbound{
		Frequency: protocol.FrequencyHigh,
		ID:        2,
		Body:      protocol.CompletePingCheck{PingID: 9},
		Reliable:  true,
	}, now)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if seq != 1 {
		t.Fatalf("expected first sequence to be 1, got %d", seq)
	}

	buf := make([]byte, 2048)
	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := b.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	inbound, err := circuitB.Receive(buf[:n], now)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if inbound.Duplicate {
		t.Fatal("first delivery should not be a duplicate")
	}
	got, ok := inbound.Body.(protocol.CompletePingCheck)
	if !ok || got.PingID != 9 {
		t.Fatalf("expected CompletePingCheck{9}, got %+v", inbound.Body)
	}
	if circuitB.PendingAckCount() != 1 {
		t.Fatalf("expected 1 pending ack, got %d", circuitB.PendingAckCount())
	}
}

func TestCircuitReliabilityTableTracksReliableSend(t *testing.T) {
	a, b := newLoopbackPair(t)
	defer a.Close()
	defer b.Close()

	now := time.Unix(1000, 0)
	c := NewCircuit(a, b.LocalAddr().(*net.UDPAddr), now)

	if _, err := c.Send(Outbound{
		Frequency: protocol.FrequencyHigh,
		ID:        2,
		Body:      protocol.CompletePingCheck{PingID: 1},
		Reliable:  true,
	}, now); err != nil {
		t.Fatalf("send: %v", err)
	}
	if c.ReliableOutstanding() != 1 {
		t.Fatalf("expected 1 outstanding reliable send, got %d", c.ReliableOutstanding())
	}
}
