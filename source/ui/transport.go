package ui

import (
	"net"
	"runtime"

	"github.com/pkg/errors"

	"metaverse-session/internal/sockopt"
)

// Transport is a datagram socket pair to the UI process: a UNIX domain
// socket on Unix platforms, loopback UDP elsewhere (§4.6).
type Transport struct {
	conn net.PacketConn
	peer net.Addr
}

// Listen binds the core's end of the transport at localAddr and targets
// peerAddr for outbound sends. On Unix, both are filesystem paths to
// unixgram sockets; elsewhere they are "host:port" loopback addresses.
func Listen(localAddr, peerAddr string) (*Transport, error) {
	network := "unixgram"
	if runtime.GOOS == "windows" {
		network = "udp"
	}

	conn, err := net.ListenPacket(network, localAddr)
	if err != nil {
		return nil, errors.Wrap(err, "ui: listen")
	}
	if network == "unixgram" {
		if err := sockopt.ChmodSocket(localAddr); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "ui: chmod socket")
		}
	}

	peer, err := resolvePeer(network, peerAddr)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "ui: resolve peer")
	}

	return &Transport{conn: conn, peer: peer}, nil
}

func resolvePeer(network, addr string) (net.Addr, error) {
	if network == "unixgram" {
		return net.ResolveUnixAddr(network, addr)
	}
	return net.ResolveUDPAddr(network, addr)
}

// SendMessage encodes and fragments a core→UI message, writing each
// chunk as a separate datagram.
func (t *Transport) SendMessage(typ string, payload interface{}) error {
	encoded, err := Encode(typ, payload)
	if err != nil {
		return errors.Wrap(err, "ui: encode")
	}
	for _, chunk := range Fragment(encoded) {
		if _, err := t.conn.WriteTo(chunk, t.peer); err != nil {
			return errors.Wrap(err, "ui: send")
		}
	}
	return nil
}

// ReadRaw blocks for the next raw datagram without decoding it, for
// callers that manage their own Reassembler (the Mailbox does this so
// reassembly happens on its single event-loop thread).
func (t *Transport) ReadRaw(buf []byte) (int, net.Addr, error) {
	return t.conn.ReadFrom(buf)
}

// ReadEnvelope blocks for the next datagram, reassembling fragments with
// r, and returns the decoded Envelope once a full message has arrived.
func (t *Transport) ReadEnvelope(r *Reassembler, buf []byte) (Envelope, error) {
	for {
		n, _, err := t.conn.ReadFrom(buf)
		if err != nil {
			return Envelope{}, errors.Wrap(err, "ui: read")
		}
		complete, ok := r.Feed(buf[:n])
		if !ok {
			continue
		}
		return Decode(complete)
	}
}

// Close releases the transport's socket.
func (t *Transport) Close() error {
	return t.conn.Close()
}
