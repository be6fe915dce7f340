package protocol

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestAppendedAcksRoundTrip(t *testing.T) {
	body := []byte{0x01, 0x02, 0x03}
	acks := []uint32{10, 20, 30}

	withTail := AppendAcks(body, acks)
	gotAcks, remainder, err := StripAppendedAcks(withTail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotAcks, acks) {
		t.Errorf("expected acks %v, got %v", acks, gotAcks)
	}
	if !reflect.DeepEqual(remainder, body) {
		t.Errorf("expected remainder %v, got %v", body, remainder)
	}
}

func TestAppendedAcksEmpty(t *testing.T) {
	body := []byte{0x42}
	withTail := AppendAcks(body, nil)
	acks, remainder, err := StripAppendedAcks(withTail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(acks) != 0 {
		t.Errorf("expected no acks, got %v", acks)
	}
	if !reflect.DeepEqual(remainder, body) {
		t.Errorf("expected remainder %v, got %v", body, remainder)
	}
}

func TestDecodeBodyUnknownPacket(t *testing.T) {
	_, err := DecodeBody(9999, FrequencyHigh, nil)
	if err == nil {
		t.Fatal("expected error for unknown packet")
	}
	if _, ok := err.(ErrUnknownPacket); !ok {
		t.Errorf("expected ErrUnknownPacket, got %T", err)
	}
}

func TestDecodeBodyUseCircuitCode(t *testing.T) {
	want := UseCircuitCode{
		Code:      123456,
		SessionID: uuid.New(),
		ID:        uuid.New(),
	}
	body, err := DecodeBody(3, FrequencyLow, want.ToBytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := body.(UseCircuitCode)
	if !ok {
		t.Fatalf("expected UseCircuitCode, got %T", body)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestVariantName(t *testing.T) {
	if name := VariantName(3, FrequencyLow); name != "UseCircuitCode" {
		t.Errorf("expected UseCircuitCode, got %q", name)
	}
	if name := VariantName(9999, FrequencyHigh); name != "" {
		t.Errorf("expected empty name for unregistered packet, got %q", name)
	}
}
