package protocol

import (
	"testing"

	"github.com/google/uuid"
)

func TestAgentUpdateRoundTrip(t *testing.T) {
	want := AgentUpdate{
		AgentID:        uuid.New(),
		SessionID:      uuid.New(),
		BodyRotation:   Quaternion{X: 0.1, Y: 0.2, Z: 0.3},
		HeadRotation:   Quaternion{X: 0.4, Y: 0.5, Z: 0.6},
		State:          3,
		CameraCenter:   Vector3{X: 1, Y: 2, Z: 3},
		CameraAtAxis:   Vector3{X: 0, Y: 1, Z: 0},
		CameraLeftAxis: Vector3{X: 1, Y: 0, Z: 0},
		CameraUpAxis:   Vector3{X: 0, Y: 0, Z: 1},
		Far:            64,
		ControlFlags:   0x00000010,
		Flags:          1,
	}
	body, err := decodeAgentUpdate(want.ToBytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.(AgentUpdate) != want {
		t.Errorf("expected %+v, got %+v", want, body)
	}
}

func TestRawPassthroughPreservesBytes(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	body, err := decodeRaw("ObjectUpdate")(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body.ToBytes()) != string(raw) {
		t.Errorf("expected raw bytes preserved, got %v", body.ToBytes())
	}
}
