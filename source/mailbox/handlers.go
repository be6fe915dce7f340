package mailbox

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"

	"metaverse-session/internal/sockopt"
	"metaverse-session/pkg/logger"
	"metaverse-session/source/circuit"
	"metaverse-session/source/llsd"
	"metaverse-session/source/protocol"
	"metaverse-session/source/ui"
)

// logoutGrace is how long Terminating waits for LogoutRequest's ack
// before forcing Terminated, per §4.5/§5.
const logoutGrace = 2 * time.Second

// --- UI-originated events ---

func (m *Mailbox) handleUILogin(ctx context.Context, env ui.Envelope) {
	if m.state != StateInitial {
		logger.Warn("mailbox: Login received in state %s, ignoring", m.state)
		return
	}
	var req ui.LoginRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		logger.Warn("mailbox: malformed Login payload: %v", err)
		return
	}

	loginURL := req.URL
	if loginURL == "" {
		loginURL = m.cfg.LoginURL
	}

	m.transition(StateLoggingIn)

	go func() {
		loginCtx, cancel := context.WithTimeout(ctx, time.Duration(m.cfg.Timeouts.LoginSeconds)*time.Second)
		defer cancel()
		resp, err := m.cap.Login(loginCtx, loginURL, llsd.LoginRequest{
			First:        req.First,
			Last:         req.Last,
			Passwd:       req.Passwd,
			Start:        req.Start,
			Channel:      req.Channel,
			Version:      m.cfg.Viewer.Version,
			Platform:     m.cfg.Viewer.Platform,
			Mac:          m.cfg.Viewer.Mac,
			AgreeToTos:   req.AgreeToTos,
			ReadCritical: req.ReadCritical,
		})
		m.loginCh <- loginResult{resp: resp, err: err}
	}()
}

func (m *Mailbox) handleLoginResult(res loginResult) {
	if m.state != StateLoggingIn {
		return
	}
	if res.err != nil {
		logger.Warn("mailbox: login request failed: %v", res.err)
		m.emitUI(ui.TypeError, ui.ErrorMessage{Reason: "connection", Message: res.err.Error()})
		m.transition(StateInitial)
		return
	}
	if !res.resp.Success {
		m.emitUI(ui.TypeError, ui.ErrorMessage{Reason: string(res.resp.ErrReason), Message: res.resp.ErrMessage})
		m.transition(StateInitial)
		return
	}

	agentID, _ := uuid.Parse(res.resp.AgentID)
	sessionID, _ := uuid.Parse(res.resp.SessionID)
	regionAddr := &net.UDPAddr{IP: net.ParseIP(res.resp.SimIP), Port: int(res.resp.SimPort)}

	m.session = &Session{
		AgentID:        agentID,
		SessionID:      sessionID,
		CircuitCode:    res.resp.CircuitCode,
		RegionAddr:     regionAddr,
		SeedCapability: res.resp.SeedCapability,
		RegionHandle:   res.resp.RegionHandle,
		FirstName:      res.resp.FirstName,
		LastName:       res.resp.LastName,
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		logger.Error("mailbox: failed to bind circuit socket: %v", err)
		m.emitUI(ui.TypeError, ui.ErrorMessage{Reason: "connection", Message: err.Error()})
		m.transition(StateInitial)
		return
	}
	if err := sockopt.TuneUDP(conn); err != nil {
		logger.Warn("mailbox: socket tuning failed, continuing with kernel defaults: %v", err)
	}
	m.udpConn = conn
	m.circ = circuit.NewCircuit(conn, regionAddr, time.Now())
	go m.readUDP(conn)

	m.transition(StateEstablishingCircuit)

	seq, err := m.circ.Send(circuit.Outbound{
		Frequency: protocol.FrequencyLow,
		ID:        3,
		Reliable:  true,
		Body: protocol.UseCircuitCode{
			Code:      m.session.CircuitCode,
			SessionID: m.session.SessionID,
			ID:        m.session.AgentID,
		},
	}, time.Now())
	if err != nil {
		logger.Error("mailbox: failed to send UseCircuitCode: %v", err)
		return
	}
	m.circuitCodeSeq = seq
}

func (m *Mailbox) handleUIChat(env ui.Envelope) {
	if m.state != StateRunning || m.session == nil {
		logger.Warn("mailbox: ChatFromViewer received in state %s, ignoring", m.state)
		return
	}
	var req ui.ChatFromViewerRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		logger.Warn("mailbox: malformed ChatFromViewer payload: %v", err)
		return
	}
	_, err := m.circ.Send(circuit.Outbound{
		Frequency: protocol.FrequencyLow,
		ID:        80,
		Reliable:  true,
		Body: protocol.ChatFromViewer{
			AgentID:   m.session.AgentID,
			SessionID: m.session.SessionID,
			Message:   req.Message,
			Type:      protocol.ChatType(req.MessageType),
			Channel:   req.Channel,
		},
	}, time.Now())
	if err != nil {
		logger.Warn("mailbox: failed to send chat: %v", err)
	}
}

func (m *Mailbox) handleUILogout() {
	if m.session == nil || m.circ == nil {
		m.transition(StateTerminated)
		return
	}
	if m.state == StateTerminating {
		// A second Logout is a hard abort (§5).
		m.closeSockets()
		m.transition(StateTerminated)
		return
	}

	m.transition(StateTerminating)
	m.logoutDeadline = time.Now().Add(logoutGrace)
	_, err := m.circ.Send(circuit.Outbound{
		Frequency: protocol.FrequencyLow,
		ID:        252,
		Reliable:  true,
		Body: protocol.LogoutRequest{
			AgentID:   m.session.AgentID,
			SessionID: m.session.SessionID,
		},
	}, time.Now())
	if err != nil {
		logger.Warn("mailbox: failed to send LogoutRequest: %v", err)
	}
}

// --- UDP-originated events ---

func (m *Mailbox) handleUDP(raw []byte, now time.Time) {
	if m.circ == nil {
		return
	}
	inbound, err := m.circ.Receive(raw, now)
	if err != nil {
		logger.Warn("mailbox: decode failure, dropping datagram: %v", err)
		return
	}
	if m.circuitCodeSeq != 0 {
		for _, acked := range inbound.AckedByTail {
			if acked == m.circuitCodeSeq {
				m.onCircuitCodeAcked()
			}
		}
	}
	if inbound.Duplicate || inbound.Body == nil {
		return
	}
	m.dispatchPacket(inbound.Header, inbound.Body, now)
}

func (m *Mailbox) onCircuitCodeAcked() {
	if m.state != StateEstablishingCircuit {
		return
	}
	m.transition(StateAwaitingHandshake)
	m.circuitCodeSeq = 0

	_, err := m.circ.Send(circuit.Outbound{
		Frequency: protocol.FrequencyLow,
		ID:        249,
		Reliable:  false,
		Body: protocol.CompleteAgentMovement{
			AgentID:     m.session.AgentID,
			SessionID:   m.session.SessionID,
			CircuitCode: m.session.CircuitCode,
		},
	}, time.Now())
	if err != nil {
		logger.Warn("mailbox: failed to send CompleteAgentMovement: %v", err)
	}

	go m.requestSeedCapabilities()
}

func (m *Mailbox) requestSeedCapabilities() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(m.cfg.Timeouts.CapabilitySeconds)*time.Second)
	defer cancel()
	wanted := []string{"GetMesh", "FetchInventoryDescendents2", "FetchLibDescendents2", "ViewerAsset"}
	caps, err := m.cap.RequestCapabilities(ctx, m.session.SeedCapability, wanted)
	m.capCh <- capabilityResult{caps: caps, err: err}
}

func (m *Mailbox) handleCapabilityResult(res capabilityResult) {
	if res.err != nil {
		logger.Warn("mailbox: capability request failed, affected capabilities unavailable: %v", res.err)
		return
	}
	logger.Debug("mailbox: acquired %d capability URLs", len(res.caps))
}

func (m *Mailbox) dispatchPacket(h protocol.Header, body protocol.Body, now time.Time) {
	switch p := body.(type) {
	case protocol.StartPingCheck:
		reply := m.circ.ObservePing(p.PingID, p.OldestUnacked, now)
		if _, err := m.circ.Send(circuit.Outbound{
			Frequency: protocol.FrequencyHigh,
			ID:        2,
			Body:      protocol.CompletePingCheck{PingID: reply},
		}, now); err != nil {
			logger.Warn("mailbox: failed to reply to ping: %v", err)
		}

	case protocol.PacketAck:
		for _, id := range p.PacketIDs {
			m.circ.Ack(id)
		}

	case protocol.RegionHandshake:
		if m.state != StateAwaitingHandshake {
			return
		}
		_, err := m.circ.Send(circuit.Outbound{
			Frequency: protocol.FrequencyLow,
			ID:        149,
			Reliable:  true,
			Body: protocol.RegionHandshakeReply{
				AgentID:   m.session.AgentID,
				SessionID: m.session.SessionID,
				Flags:     0,
			},
		}, now)
		if err != nil {
			logger.Warn("mailbox: failed to reply to region handshake: %v", err)
		}
		m.transition(StateRunning)
		m.emitUI(ui.TypeLoginResponse, ui.LoginResponse{
			FirstName: m.session.FirstName,
			LastName:  m.session.LastName,
		})

	case protocol.ChatFromSimulator:
		m.emitUI(ui.TypeChatFromSimulator, ui.ChatFromSimulatorMessage{
			FromName: p.FromName,
			Message:  p.Message,
			Type:     uint8(p.Type),
			Position: p.Position,
		})

	case protocol.CoarseLocationUpdate:
		m.emitUI(ui.TypeCoarseLocationUpdate, ui.CoarseLocationUpdateMessage{
			You:  p.You,
			Prey: p.Prey,
		})

	case protocol.DisableSimulator:
		m.emitUI(ui.TypeDisableSimulator, ui.DisableSimulatorMessage{})
		m.transition(StateTerminating)
		m.logoutDeadline = now.Add(logoutGrace)

	case protocol.Raw:
		// LayerData, the object-update family and the avatar-appearance
		// packets are opaque passthroughs here; forwarding them to the
		// environment/object/inventory external collaborators is outside
		// this package's contract (§4.5 handler summary).
		logger.Debug("mailbox: received unhandled %s (%d bytes)", p.Variant, len(p.Data))

	default:
		logger.Debug("mailbox: no handler for %T, acked if reliable and dropped", body)
	}

	if h.Reliable && m.circ.ShouldFlushAcks(now) {
		m.flushAcks(now)
	}
}

func (m *Mailbox) flushAcks(now time.Time) {
	acks := m.circ.FlushAcks()
	if len(acks) == 0 {
		return
	}
	if _, err := m.circ.Send(circuit.Outbound{
		Frequency: protocol.FrequencyFixed,
		ID:        251,
		Body:      protocol.PacketAck{PacketIDs: acks},
	}, now); err != nil {
		logger.Warn("mailbox: failed to flush acks: %v", err)
	}
}

// --- Timer-driven events ---

func (m *Mailbox) handleTick(now time.Time) {
	if m.circ == nil {
		return
	}

	for _, due := range m.circ.RetransmitDue(now) {
		if due.Exhausted {
			logger.Warn("mailbox: delivery failed for sequence %d after max retries", due.Sequence)
			continue
		}
		if _, err := m.udpConn.WriteToUDP(due.Packet, m.session.RegionAddr); err != nil {
			logger.Warn("mailbox: retransmit failed for sequence %d: %v", due.Sequence, err)
		}
	}

	if m.circ.ShouldFlushAcks(now) {
		m.flushAcks(now)
	}

	if m.state == StateRunning && m.circ.IdleExpired(now) {
		m.emitUI(ui.TypeDisableSimulator, ui.DisableSimulatorMessage{})
		m.transition(StateTerminating)
		m.logoutDeadline = now.Add(logoutGrace)
	}

	if m.state == StateTerminating {
		if now.After(m.logoutDeadline) || m.circ.ReliableOutstanding() == 0 {
			m.closeSockets()
			m.transition(StateTerminated)
		}
	}
}

func (m *Mailbox) closeSockets() {
	if m.udpConn != nil {
		m.udpConn.Close()
		m.udpConn = nil
	}
}
