package protocol

import (
	"testing"

	"github.com/google/uuid"
)

func TestChatFromViewerRoundTrip(t *testing.T) {
	want := ChatFromViewer{
		AgentID:   uuid.New(),
		SessionID: uuid.New(),
		Message:   "hello region",
		Type:      ChatTypeNormal,
		Channel:   0,
	}
	body, err := decodeChatFromViewer(want.ToBytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.(ChatFromViewer) != want {
		t.Errorf("expected %+v, got %+v", want, body)
	}
}

func TestChatFromViewerChannelIsBigEndian(t *testing.T) {
	want := ChatFromViewer{Channel: 1}
	raw := want.ToBytes()
	// AgentID(16) + SessionID(16) + VarString16 len(2) + type(1) = 35 bytes
	// before the 4-byte channel field.
	channelBytes := raw[len(raw)-4:]
	if channelBytes[0] != 0x00 || channelBytes[3] != 0x01 {
		t.Errorf("expected big-endian channel encoding, got %v", channelBytes)
	}
}

func TestCoarseLocationUpdateRoundTrip(t *testing.T) {
	want := CoarseLocationUpdate{
		Locations: []MinimapEntity{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
		You:       0,
		Prey:      -1,
	}
	body, err := decodeCoarseLocationUpdate(want.ToBytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := body.(CoarseLocationUpdate)
	if got.You != want.You || got.Prey != want.Prey {
		t.Errorf("expected you/prey %d/%d, got %d/%d", want.You, want.Prey, got.You, got.Prey)
	}
	if len(got.Locations) != len(want.Locations) {
		t.Fatalf("expected %d locations, got %d", len(want.Locations), len(got.Locations))
	}
	for i := range want.Locations {
		if got.Locations[i] != want.Locations[i] {
			t.Errorf("index %d: expected %+v, got %+v", i, want.Locations[i], got.Locations[i])
		}
	}
}
