package protocol

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ChatType enumerates the channel semantics of a chat message, mirroring
// the simulator's own classification (whisper/say/shout plus the
// non-spoken variants used for start/stop-typing indicators).
type ChatType uint8

const (
	ChatTypeWhisper    ChatType = 0
	ChatTypeNormal     ChatType = 1
	ChatTypeShout      ChatType = 2
	ChatTypeStartTyping ChatType = 4
	ChatTypeStopTyping  ChatType = 5
)

// ChatFromViewer (id 80, Low). Outbound local chat. Channel is
// big-endian, unlike every other signed 32-bit field in the protocol.
type ChatFromViewer struct {
	AgentID   uuid.UUID
	SessionID uuid.UUID
	Message   string
	Type      ChatType
	Channel   int32
}

func decodeChatFromViewer(data []byte) (Body, error) {
	s := NewReader(data)
	agentID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "agent_id")
	}
	sessionID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "session_id")
	}
	msg, err := s.ReadVarString16()
	if err != nil {
		return nil, errors.Wrap(err, "message")
	}
	chatType, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "type")
	}
	channel, err := s.ReadInt32BE()
	if err != nil {
		return nil, errors.Wrap(err, "channel")
	}
	return ChatFromViewer{
		AgentID:   agentID,
		SessionID: sessionID,
		Message:   msg,
		Type:      ChatType(chatType),
		Channel:   channel,
	}, nil
}

func (p ChatFromViewer) ToBytes() []byte {
	s := NewWriter()
	s.WriteUUID(p.AgentID)
	s.WriteUUID(p.SessionID)
	s.WriteVarString16(p.Message)
	s.WriteByte(byte(p.Type))
	s.WriteInt32BE(p.Channel)
	return s.Bytes()
}

// ChatFromSimulator (id 139, Low). Inbound local chat, broadcast by the
// simulator to everyone in range of the speaker.
type ChatFromSimulator struct {
	FromName  string
	SourceID  uuid.UUID
	OwnerID   uuid.UUID
	Message   string
	Type      ChatType
	Position  [3]float32
}

func decodeChatFromSimulator(data []byte) (Body, error) {
	s := NewReader(data)
	name, err := s.ReadVarString16()
	if err != nil {
		return nil, errors.Wrap(err, "from_name")
	}
	sourceID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "source_id")
	}
	ownerID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "owner_id")
	}
	chatType, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "type")
	}
	msg, err := s.ReadVarString16()
	if err != nil {
		return nil, errors.Wrap(err, "message")
	}
	var pos [3]float32
	for i := range pos {
		v, err := s.ReadFloat32LE()
		if err != nil {
			return nil, errors.Wrap(err, "position")
		}
		pos[i] = v
	}
	return ChatFromSimulator{
		FromName: name,
		SourceID: sourceID,
		OwnerID:  ownerID,
		Message:  msg,
		Type:     ChatType(chatType),
		Position: pos,
	}, nil
}

func (p ChatFromSimulator) ToBytes() []byte {
	s := NewWriter()
	s.WriteVarString16(p.FromName)
	s.WriteUUID(p.SourceID)
	s.WriteUUID(p.OwnerID)
	s.WriteByte(byte(p.Type))
	s.WriteVarString16(p.Message)
	for _, v := range p.Position {
		s.WriteFloat32LE(v)
	}
	return s.Bytes()
}

// MinimapEntity is a single other-agent marker carried by
// CoarseLocationUpdate, quantized to one byte per axis.
type MinimapEntity struct {
	X, Y, Z uint8
}

// CoarseLocationUpdate (id 6, Medium). The low-resolution minimap feed:
// a list of other avatars' quantized positions plus the index of "you"
// and "prey" (the focus-follow target) within that list.
type CoarseLocationUpdate struct {
	Locations []MinimapEntity
	You       int16
	Prey      int16
}

func decodeCoarseLocationUpdate(data []byte) (Body, error) {
	s := NewReader(data)
	count, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "count")
	}
	locs := make([]MinimapEntity, 0, count)
	for i := 0; i < int(count); i++ {
		x, err := s.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "x")
		}
		y, err := s.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "y")
		}
		z, err := s.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "z")
		}
		locs = append(locs, MinimapEntity{X: x, Y: y, Z: z})
	}
	youV, err := s.ReadUint16LE()
	if err != nil {
		return nil, errors.Wrap(err, "you")
	}
	preyV, err := s.ReadUint16LE()
	if err != nil {
		return nil, errors.Wrap(err, "prey")
	}
	return CoarseLocationUpdate{
		Locations: locs,
		You:       int16(youV),
		Prey:      int16(preyV),
	}, nil
}

func (p CoarseLocationUpdate) ToBytes() []byte {
	s := NewWriter()
	s.WriteByte(byte(len(p.Locations)))
	for _, l := range p.Locations {
		s.WriteByte(l.X)
		s.WriteByte(l.Y)
		s.WriteByte(l.Z)
	}
	s.WriteUint16LE(uint16(p.You))
	s.WriteUint16LE(uint16(p.Prey))
	return s.Bytes()
}

func init() {
	register(80, FrequencyLow, "ChatFromViewer", decodeChatFromViewer)
	register(139, FrequencyLow, "ChatFromSimulator", decodeChatFromSimulator)
	register(6, FrequencyMedium, "CoarseLocationUpdate", decodeCoarseLocationUpdate)
}
