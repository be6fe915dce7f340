package llsd

import (
	"testing"

	"github.com/google/uuid"
)

func TestEncodeDecodeMapRoundTrip(t *testing.T) {
	id := uuid.New()
	want := Map(map[string]Value{
		"name":  String("Region Name"),
		"count": Integer(42),
		"ratio": Real(0.5),
		"agent": UUIDValue(id),
		"items": Array(Integer(1), Integer(2), Integer(3)),
	})

	encoded := Encode(want)
	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Get("name").AsString() != "Region Name" {
		t.Errorf("expected name round trip, got %q", got.Get("name").AsString())
	}
	if got.Get("count").Int != 42 {
		t.Errorf("expected count 42, got %d", got.Get("count").Int)
	}
	if got.Get("agent").UUID != id {
		t.Errorf("expected agent %s, got %s", id, got.Get("agent").UUID)
	}
	if len(got.Get("items").Array) != 3 {
		t.Errorf("expected 3 items, got %d", len(got.Get("items").Array))
	}
}

func TestEncodeDecodeBooleanAndUndef(t *testing.T) {
	want := Array(Boolean(true), Boolean(false), Undef())
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Array[0].Bool || got.Array[1].Bool {
		t.Errorf("expected [true, false], got %v", got.Array)
	}
	if got.Array[2].Kind != KindUndef {
		t.Errorf("expected Undef, got %v", got.Array[2].Kind)
	}
}

func TestCapabilityRequestRoundTrip(t *testing.T) {
	names := []string{"GetMesh", "ViewerAsset", "FetchInventoryDescendents2"}
	body := EncodeCapabilityRequest(names)
	v, err := Decode(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Array) != len(names) {
		t.Fatalf("expected %d names, got %d", len(names), len(v.Array))
	}
	for i, name := range names {
		if v.Array[i].AsString() != name {
			t.Errorf("index %d: expected %q, got %q", i, name, v.Array[i].AsString())
		}
	}
}

func TestDecodeCapabilityMap(t *testing.T) {
	doc := []byte(`<llsd><map><key>GetMesh</key><string>http://sim/CAPS/GetMesh</string></map></llsd>`)
	m, err := DecodeCapabilityMap(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["GetMesh"] != "http://sim/CAPS/GetMesh" {
		t.Errorf("expected GetMesh URL, got %q", m["GetMesh"])
	}
}
