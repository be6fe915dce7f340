package ui

import "encoding/json"

// fragmentEnvelope is the wire shape for a chunk of a message too large
// for one datagram, per §4.6.
type fragmentEnvelope struct {
	SequenceNumber   int    `json:"sequence_number"`
	TotalPacketNumber int   `json:"total_packet_number"`
	MessageType      string `json:"message_type"`
	Message          []byte `json:"message"`
}

// maxDatagramPayload bounds a single chunk's Message field; the
// envelope framing itself (JSON overhead, base64 expansion of Message)
// is kept well inside common UDP/UNIX datagram MTUs.
const maxDatagramPayload = 16 * 1024

// Fragment splits an already-encoded envelope into one or more datagrams.
// If it fits in a single datagram it is returned unwrapped (no fragment
// framing) so the common case avoids a decode indirection on the
// receiver.
func Fragment(encoded []byte) [][]byte {
	if len(encoded) <= maxDatagramPayload {
		return [][]byte{encoded}
	}

	var chunks [][]byte
	for offset := 0; offset < len(encoded); offset += maxDatagramPayload {
		end := offset + maxDatagramPayload
		if end > len(encoded) {
			end = len(encoded)
		}
		chunks = append(chunks, encoded[offset:end])
	}

	total := len(chunks)
	out := make([][]byte, total)
	for i, chunk := range chunks {
		frag := fragmentEnvelope{
			SequenceNumber:    i,
			TotalPacketNumber: total,
			MessageType:       "fragment",
			Message:           chunk,
		}
		raw, err := json.Marshal(frag)
		if err != nil {
			return nil
		}
		out[i] = raw
	}
	return out
}

// isFragment reports whether raw looks like a fragmentEnvelope rather
// than a plain Envelope, by probing for message_type == "fragment".
func isFragment(raw []byte) bool {
	var probe struct {
		MessageType string `json:"message_type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.MessageType == "fragment"
}

// Reassembler accumulates the fragments of one in-flight message at a
// time, since the UI transport delivers one logical message's fragments
// back-to-back and fragmented delivery is explicitly best-effort (§4.6):
// a message that never completes is simply dropped when a fragment with
// a different TotalPacketNumber arrives and starts a new one.
type Reassembler struct {
	total   int
	chunks  [][]byte
	got     int
}

// NewReassembler returns an empty Reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Feed processes one received datagram. If it is a plain (unfragmented)
// envelope, it is returned immediately. If it is a fragment, it is
// accumulated; once all fragments for the current message have arrived,
// the reassembled bytes are returned.
func (r *Reassembler) Feed(raw []byte) ([]byte, bool) {
	if !isFragment(raw) {
		return raw, true
	}

	var frag fragmentEnvelope
	if err := json.Unmarshal(raw, &frag); err != nil {
		return nil, false
	}

	if r.chunks == nil || frag.TotalPacketNumber != r.total {
		r.total = frag.TotalPacketNumber
		r.chunks = make([][]byte, r.total)
		r.got = 0
	}
	if frag.SequenceNumber < 0 || frag.SequenceNumber >= r.total {
		return nil, false
	}
	if r.chunks[frag.SequenceNumber] == nil {
		r.got++
	}
	r.chunks[frag.SequenceNumber] = frag.Message

	if r.got < r.total {
		return nil, false
	}

	var out []byte
	for _, c := range r.chunks {
		out = append(out, c...)
	}
	r.chunks = nil
	r.total = 0
	r.got = 0
	return out, true
}
