// Package mailbox implements the single-threaded session actor: the
// event loop that owns Session/Circuit state, dispatches inbound
// packets and UI requests, and drives the login/handshake/logout state
// machine of §4.5.
package mailbox

import (
	"context"
	"net"
	"time"

	"metaverse-session/internal/config"
	"metaverse-session/pkg/logger"
	"metaverse-session/source/capabilities"
	"metaverse-session/source/circuit"
	"metaverse-session/source/llsd"
	"metaverse-session/source/ui"
)

// loginResult is posted back to the Mailbox by the detached login task.
type loginResult struct {
	resp llsd.LoginResponse
	err  error
}

// capabilityResult is posted back to the Mailbox by the detached
// capability-request task.
type capabilityResult struct {
	caps map[string]string
	err  error
}

// Mailbox is the session actor. All fields below are owned exclusively
// by run() and must not be touched from other goroutines (§5).
type Mailbox struct {
	cfg config.Config
	cap *capabilities.Client

	state   State
	session *Session
	circ    *circuit.Circuit

	udpConn *net.UDPConn
	uiConn  *ui.Transport
	reasm   *ui.Reassembler

	circuitCodeSeq uint32
	logoutDeadline time.Time

	udpIn   chan []byte
	loginCh chan loginResult
	capCh   chan capabilityResult
	stop    chan struct{}
}

// New constructs a Mailbox in the Initial state, ready to Run.
func New(cfg config.Config, uiConn *ui.Transport) *Mailbox {
	return &Mailbox{
		cfg:     cfg,
		cap:     capabilities.NewClient(),
		state:   StateInitial,
		uiConn:  uiConn,
		reasm:   ui.NewReassembler(),
		udpIn:   make(chan []byte, 64),
		loginCh: make(chan loginResult, 1),
		capCh:   make(chan capabilityResult, 1),
		stop:    make(chan struct{}),
	}
}

// Stop requests the event loop to exit; safe to call once.
func (m *Mailbox) Stop() {
	close(m.stop)
}

// Run is the Mailbox's event loop. It owns all session mutation and
// must be called from a single goroutine; I/O tasks it spawns report
// back through the channels above rather than mutating state directly.
func (m *Mailbox) Run(ctx context.Context) error {
	ticker := time.NewTicker(circuit.RetransmitTick)
	defer ticker.Stop()

	uiReader := make(chan []byte, 16)
	go m.readUI(uiReader)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stop:
			return nil

		case raw := <-uiReader:
			complete, ok := m.reasm.Feed(raw)
			if !ok {
				continue
			}
			env, err := ui.Decode(complete)
			if err != nil {
				logger.Warn("mailbox: malformed UI datagram: %v", err)
				continue
			}
			m.handleUIEnvelope(ctx, env)

		case raw := <-m.udpIn:
			m.handleUDP(raw, time.Now())

		case res := <-m.loginCh:
			m.handleLoginResult(res)

		case res := <-m.capCh:
			m.handleCapabilityResult(res)

		case now := <-ticker.C:
			m.handleTick(now)
		}
	}
}

// readUI forwards raw datagrams from the UI transport's blocking read
// loop onto a channel Run can select on; it performs no decoding of its
// own so fragment reassembly stays inside the Mailbox's single thread.
func (m *Mailbox) readUI(out chan<- []byte) {
	buf := make([]byte, 64*1024)
	for {
		n, _, err := m.uiRawRead(buf)
		if err != nil {
			return
		}
		cp := make([]byte, n)
		copy(cp, buf[:n])
		out <- cp
	}
}

func (m *Mailbox) uiRawRead(buf []byte) (int, net.Addr, error) {
	return m.uiConn.ReadRaw(buf)
}

// readUDP reads datagrams off the circuit socket and hands them to
// DeliverUDP; it is started once the circuit socket exists (§4.3) and
// exits when that socket is closed at session teardown.
func (m *Mailbox) readUDP(conn *net.UDPConn) {
	buf := make([]byte, 64*1024)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		m.DeliverUDP(buf[:n])
	}
}

// handleUIEnvelope dispatches a decoded UI envelope by its type tag;
// fragment reassembly has already happened in Run before it is called.
func (m *Mailbox) handleUIEnvelope(ctx context.Context, env ui.Envelope) {
	switch env.Type {
	case ui.TypeLogin:
		m.handleUILogin(ctx, env)
	case ui.TypeChatFromViewer:
		m.handleUIChat(env)
	case ui.TypeLogout:
		m.handleUILogout()
	default:
		logger.Warn("mailbox: unrecognized UI message type %q", env.Type)
	}
}

// DeliverUDP hands a raw datagram to the Mailbox without blocking the
// socket reader (readUDP) on the event loop's pace.
func (m *Mailbox) DeliverUDP(raw []byte) {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	select {
	case m.udpIn <- cp:
	default:
		logger.Warn("mailbox: udp inbound queue full, dropping datagram")
	}
}

func (m *Mailbox) transition(to State) {
	logger.Debug("mailbox: %s -> %s", m.state, to)
	m.state = to
}

func (m *Mailbox) emitUI(typ string, payload interface{}) {
	if err := m.uiConn.SendMessage(typ, payload); err != nil {
		logger.Warn("mailbox: ui send failed: %v", err)
	}
}

