package protocol

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Vector3 is a packed three-axis float triple, used throughout the
// object and agent packet families for position/rotation/velocity.
type Vector3 struct {
	X, Y, Z float32
}

func readVector3(s *Stream) (Vector3, error) {
	x, err := s.ReadFloat32LE()
	if err != nil {
		return Vector3{}, err
	}
	y, err := s.ReadFloat32LE()
	if err != nil {
		return Vector3{}, err
	}
	z, err := s.ReadFloat32LE()
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y, Z: z}, nil
}

func writeVector3(s *Stream, v Vector3) {
	s.WriteFloat32LE(v.X)
	s.WriteFloat32LE(v.Y)
	s.WriteFloat32LE(v.Z)
}

// Quaternion is stored on the wire as its X/Y/Z terms only; W is
// reconstructed as sqrt(1 - x^2 - y^2 - z^2) by the consumer, matching
// the simulator's compressed-rotation convention.
type Quaternion struct {
	X, Y, Z float32
}

func readQuaternion(s *Stream) (Quaternion, error) {
	v, err := readVector3(s)
	return Quaternion(v), err
}

func writeQuaternion(s *Stream, q Quaternion) {
	writeVector3(s, Vector3(q))
}

// AgentUpdate (id 4, High). Sent frequently by the viewer to report
// camera and avatar state; typically unreliable.
type AgentUpdate struct {
	AgentID       uuid.UUID
	SessionID     uuid.UUID
	BodyRotation  Quaternion
	HeadRotation  Quaternion
	State         uint8
	CameraCenter  Vector3
	CameraAtAxis  Vector3
	CameraLeftAxis Vector3
	CameraUpAxis  Vector3
	Far           float32
	ControlFlags  uint32
	Flags         uint8
}

func decodeAgentUpdate(data []byte) (Body, error) {
	s := NewReader(data)
	agentID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "agent_id")
	}
	sessionID, err := s.ReadUUID()
	if err != nil {
		return nil, errors.Wrap(err, "session_id")
	}
	bodyRot, err := readQuaternion(s)
	if err != nil {
		return nil, errors.Wrap(err, "body_rotation")
	}
	headRot, err := readQuaternion(s)
	if err != nil {
		return nil, errors.Wrap(err, "head_rotation")
	}
	state, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "state")
	}
	camCenter, err := readVector3(s)
	if err != nil {
		return nil, errors.Wrap(err, "camera_center")
	}
	camAt, err := readVector3(s)
	if err != nil {
		return nil, errors.Wrap(err, "camera_at_axis")
	}
	camLeft, err := readVector3(s)
	if err != nil {
		return nil, errors.Wrap(err, "camera_left_axis")
	}
	camUp, err := readVector3(s)
	if err != nil {
		return nil, errors.Wrap(err, "camera_up_axis")
	}
	far, err := s.ReadFloat32LE()
	if err != nil {
		return nil, errors.Wrap(err, "far")
	}
	controlFlags, err := s.ReadUint32LE()
	if err != nil {
		return nil, errors.Wrap(err, "control_flags")
	}
	flags, err := s.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "flags")
	}
	return AgentUpdate{
		AgentID:        agentID,
		SessionID:      sessionID,
		BodyRotation:   bodyRot,
		HeadRotation:   headRot,
		State:          state,
		CameraCenter:   camCenter,
		CameraAtAxis:   camAt,
		CameraLeftAxis: camLeft,
		CameraUpAxis:   camUp,
		Far:            far,
		ControlFlags:   controlFlags,
		Flags:          flags,
	}, nil
}

func (p AgentUpdate) ToBytes() []byte {
	s := NewWriter()
	s.WriteUUID(p.AgentID)
	s.WriteUUID(p.SessionID)
	writeQuaternion(s, p.BodyRotation)
	writeQuaternion(s, p.HeadRotation)
	s.WriteByte(p.State)
	writeVector3(s, p.CameraCenter)
	writeVector3(s, p.CameraAtAxis)
	writeVector3(s, p.CameraLeftAxis)
	writeVector3(s, p.CameraUpAxis)
	s.WriteFloat32LE(p.Far)
	s.WriteUint32LE(p.ControlFlags)
	s.WriteByte(p.Flags)
	return s.Bytes()
}

func init() {
	register(4, FrequencyHigh, "AgentUpdate", decodeAgentUpdate)
	register(158, FrequencyLow, "AvatarAppearance", decodeRaw("AvatarAppearance"))
}
