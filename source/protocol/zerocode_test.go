package protocol

import (
	"bytes"
	"testing"
)

func TestZeroEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01, 0x02, 0x03},
		{0x00, 0x00, 0x00},
		{0x01, 0x00, 0x00, 0x02},
		bytes.Repeat([]byte{0x00}, 300),
	}
	for _, c := range cases {
		encoded := ZeroEncode(c)
		decoded := ZeroDecode(encoded)
		if !bytes.Equal(decoded, c) {
			t.Errorf("round trip failed: original=%v decoded=%v", c, decoded)
		}
	}
}

func TestZeroEncodeSplitsLongRuns(t *testing.T) {
	run := bytes.Repeat([]byte{0x00}, 600)
	encoded := ZeroEncode(run)
	decoded := ZeroDecode(encoded)
	if !bytes.Equal(decoded, run) {
		t.Errorf("long run did not round trip, got %d bytes", len(decoded))
	}
}
