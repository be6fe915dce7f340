package circuit

import "testing"

func TestInboundDedupDetectsDuplicates(t *testing.T) {
	d := NewInboundDedup(4)
	if d.SeenOrInsert(1) {
		t.Error("first sighting should not be a duplicate")
	}
	if !d.SeenOrInsert(1) {
		t.Error("second sighting should be a duplicate")
	}
}

func TestInboundDedupEvictsOldest(t *testing.T) {
	d := NewInboundDedup(2)
	d.SeenOrInsert(1)
	d.SeenOrInsert(2)
	d.SeenOrInsert(3) // evicts 1

	if d.SeenOrInsert(1) {
		t.Error("expected 1 to have been evicted and treated as new")
	}
	if !d.SeenOrInsert(2) {
		t.Error("expected 2 to still be tracked")
	}
}
