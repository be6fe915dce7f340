package protocol

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StartPingCheck (id 1, High). Sent by the simulator to measure circuit
// ping; PingID wraps at 255, OldestUnacked is the sequence of the oldest
// reliable message the source still has unacknowledged.
type StartPingCheck struct {
	PingID        uint8
	OldestUnacked uint32
}

func decodeStartPingCheck(data []byte) (Body, error) {
	s := NewReader(data)
	id, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "ping_id")
	}
	oldest, err := s.ReadUint32LE()
	if err != nil {
		return nil, errors.Wrap(err, "oldest_unacked")
	}
	return StartPingCheck{PingID: id, OldestUnacked: oldest}, nil
}

func (p StartPingCheck) ToBytes() []byte {
	s := NewWriter()
	s.WriteByte(p.PingID)
	s.WriteUint32LE(p.OldestUnacked)
	return s.Bytes()
}

// CompletePingCheck (id 2, High). The reply to StartPingCheck.
type CompletePingCheck struct {
	PingID uint8
}

func decodeCompletePingCheck(data []byte) (Body, error) {
	s := NewReader(data)
	id, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "ping_id")
	}
	return CompletePingCheck{PingID: id}, nil
}

func (p CompletePingCheck) ToBytes() []byte {
	s := NewWriter()
	s.WriteByte(p.PingID)
	return s.Bytes()
}

// PacketAck (id 251, Fixed). Carries a FIFO batch of inbound sequence
// numbers being acknowledged.
type PacketAck struct {
	PacketIDs []uint32
}

func decodePacketAck(data []byte) (Body, error) {
	s := NewReader(data)
	count, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "count")
	}
	ids := make([]uint32, 0, count)
	for i := 0; i < int(count); i++ {
		id, err := s.ReadUint32LE()
		if err != nil {
			return nil, errors.Wrap(err, "packet id")
		}
		ids = append(ids, id)
	}
	return PacketAck{PacketIDs: ids}, nil
}

func (p PacketAck) ToBytes() []byte {
	s := NewWriter()
	s.WriteByte(byte(len(p.PacketIDs)))
	for _, id := range p.PacketIDs {
		s.WriteUint32LE(id)
	}
	return s.Bytes()
}

// UseCircuitCode (id 3, Low). The first packet sent by the viewer,
// establishing a circuit connection with a simulator.
type UseCircuitCode struct {
	Code      uint32
	SessionID uuid.UUID
	ID        uuid.UUID
}

func decodeUseCircuitCode(data []byte) (Body, error) {
	s := NewReader(data)
	code, err := s.ReadUint32LE()
	if err != nil {
		return nil, errors.Wrap(err, "code")
	}
	sessionID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "session_id")
	}
	id, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "id")
	}
	return UseCircuitCode{Code: code, SessionID: sessionID, ID: id}, nil
}

func (p UseCircuitCode) ToBytes() []byte {
	s := NewWriter()
	s.WriteUint32LE(p.Code)
	s.WriteUUID(p.SessionID)
	s.WriteUUID(p.ID)
	return s.Bytes()
}

// CompleteAgentMovement (id 249, Low). Establishes the avatar's presence in
// the region; without it the avatar never appears.
type CompleteAgentMovement struct {
	AgentID     uuid.UUID
	SessionID   uuid.UUID
	CircuitCode uint32
}

func decodeCompleteAgentMovement(data []byte) (Body, error) {
	s := NewReader(data)
	agentID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "agent_id")
	}
	sessionID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "session_id")
	}
	code, err := s.ReadUint32LE()
	if err != nil {
		return nil, errors.Wrap(err, "circuit_code")
	}
	return CompleteAgentMovement{AgentID: agentID, SessionID: sessionID, CircuitCode: code}, nil
}

func (p CompleteAgentMovement) ToBytes() []byte {
	s := NewWriter()
	s.WriteUUID(p.AgentID)
	s.WriteUUID(p.SessionID)
	s.WriteUint32LE(p.CircuitCode)
	return s.Bytes()
}

// AgentMovementComplete (id 250, Low). Simulator's acknowledgment that the
// avatar's movement into the region is complete.
type AgentMovementComplete struct {
	AgentID   uuid.UUID
	SessionID uuid.UUID
}

func decodeAgentMovementComplete(data []byte) (Body, error) {
	s := NewReader(data)
	agentID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "agent_id")
	}
	sessionID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "session_id")
	}
	return AgentMovementComplete{AgentID: agentID, SessionID: sessionID}, nil
}

func (p AgentMovementComplete) ToBytes() []byte {
	s := NewWriter()
	s.WriteUUID(p.AgentID)
	s.WriteUUID(p.SessionID)
	return s.Bytes()
}

// LogoutRequest (id 252, Low). Sent by the viewer to cleanly end a session.
type LogoutRequest struct {
	AgentID   uuid.UUID
	SessionID uuid.UUID
}

func decodeLogoutRequest(data []byte) (Body, error) {
	s := NewReader(data)
	agentID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "agent_id")
	}
	sessionID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "session_id")
	}
	return LogoutRequest{AgentID: agentID, SessionID: sessionID}, nil
}

func (p LogoutRequest) ToBytes() []byte {
	s := NewWriter()
	s.WriteUUID(p.AgentID)
	s.WriteUUID(p.SessionID)
	return s.Bytes()
}

// RegionHandshake (id 148, Low). Sent by the simulator once the circuit is
// established; carries region identity. Terrain texture/height fields are
// preserved opaquely since terrain rendering is out of scope.
type RegionHandshake struct {
	RegionFlags   uint32
	SimAccess     uint8
	SimName       string
	SimOwner      uuid.UUID
	TerrainExtra  []byte
}

func decodeRegionHandshake(data []byte) (Body, error) {
	s := NewReader(data)
	flags, err := s.ReadUint32LE()
	if err != nil {
		return nil, errors.Wrap(err, "region_flags")
	}
	access, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "sim_access")
	}
	name, err := s.ReadVarString16()
	if err != nil {
		return nil, errors.Wrap(err, "sim_name")
	}
	owner, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "sim_owner")
	}
	extra, _ := s.ReadBytes(s.Remaining())
	return RegionHandshake{
		RegionFlags:  flags,
		SimAccess:    access,
		SimName:      name,
		SimOwner:     owner,
		TerrainExtra: extra,
	}, nil
}

func (p RegionHandshake) ToBytes() []byte {
	s := NewWriter()
	s.WriteUint32LE(p.RegionFlags)
	s.WriteByte(p.SimAccess)
	s.WriteVarString16(p.SimName)
	s.WriteUUID(p.SimOwner)
	s.WriteBytes(p.TerrainExtra)
	return s.Bytes()
}

// RegionHandshakeReply (id 149, Low). Sent in response to RegionHandshake,
// completing the handshake.
type RegionHandshakeReply struct {
	AgentID   uuid.UUID
	SessionID uuid.UUID
	Flags     uint32
}

func decodeRegionHandshakeReply(data []byte) (Body, error) {
	s := NewReader(data)
	agentID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "agent_id")
	}
	sessionID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "session_id")
	}
	flags, err := s.ReadUint32LE()
	if err != nil {
		return nil, errors.Wrap(err, "flags")
	}
	return RegionHandshakeReply{AgentID: agentID, SessionID: sessionID, Flags: flags}, nil
}

func (p RegionHandshakeReply) ToBytes() []byte {
	s := NewWriter()
	s.WriteUUID(p.AgentID)
	s.WriteUUID(p.SessionID)
	s.WriteUint32LE(p.Flags)
	return s.Bytes()
}

// DisableSimulator (id 152, Low). Tells the viewer the simulator is
// shutting down the circuit. Intentionally carries no fields.
type DisableSimulator struct{}

func decodeDisableSimulator(data []byte) (Body, error) {
	return DisableSimulator{}, nil
}

func (p DisableSimulator) ToBytes() []byte {
	return nil
}

// EnableSimulator (id 151, Low). Tells the viewer about a neighboring
// simulator it should also establish a circuit with.
type EnableSimulator struct {
	RegionHandle uint64
	IP           uint32
	Port         uint16
}

func decodeEnableSimulator(data []byte) (Body, error) {
	s := NewReader(data)
	handle, err := s.ReadUint64LE()
	if err != nil {
		return nil, errors.Wrap(err, "region_handle")
	}
	ip, err := s.ReadUint32BE()
	if err != nil {
		return nil, errors.Wrap(err, "ip")
	}
	port, err := s.ReadUint16LE()
	if err != nil {
		return nil, errors.Wrap(err, "port")
	}
	return EnableSimulator{RegionHandle: handle, IP: ip, Port: port}, nil
}

func (p EnableSimulator) ToBytes() []byte {
	s := NewWriter()
	s.WriteUint64LE(p.RegionHandle)
	s.WriteUint32BE(p.IP)
	s.WriteUint16LE(p.Port)
	return s.Bytes()
}

func init() {
	register(1, FrequencyHigh, "StartPingCheck", decodeStartPingCheck)
	register(2, FrequencyHigh, "CompletePingCheck", decodeCompletePingCheck)
	register(251, FrequencyFixed, "PacketAck", decodePacketAck)
	register(3, FrequencyLow, "UseCircuitCode", decodeUseCircuitCode)
	register(249, FrequencyLow, "CompleteAgentMovement", decodeCompleteAgentMovement)
	register(250, FrequencyLow, "AgentMovementComplete", decodeAgentMovementComplete)
	register(252, FrequencyLow, "LogoutRequest", decodeLogoutRequest)
	register(148, FrequencyLow, "RegionHandshake", decodeRegionHandshake)
	register(149, FrequencyLow, "RegionHandshakeReply", decodeRegionHandshakeReply)
	register(152, FrequencyLow, "DisableSimulator", decodeDisableSimulator)
	register(151, FrequencyLow, "EnableSimulator", decodeEnableSimulator)
}
