package protocol

import "github.com/pkg/errors"

// Body is implemented by every packet variant in the §6.2 dispatch table.
// The variant's registered Decoder and its ToBytes must round-trip:
// decode(ToBytes(p)) == p for every structurally valid p.
type Body interface {
	ToBytes() []byte
}

// Decoder parses a packet body given its raw (already zero-decoded,
// ack-stripped) bytes.
type Decoder func(data []byte) (Body, error)

type packetKey struct {
	id        uint32
	frequency Frequency
}

type packetDef struct {
	name    string
	decode  Decoder
}

var registry = map[packetKey]packetDef{}

func register(id uint32, freq Frequency, name string, decode Decoder) {
	registry[packetKey{id: id, frequency: freq}] = packetDef{name: name, decode: decode}
}

// ErrUnknownPacket is returned by DecodeBody when (id, frequency) has no
// registered variant.
type ErrUnknownPacket struct {
	ID        uint32
	Frequency Frequency
}

func (e ErrUnknownPacket) Error() string {
	return errors.Errorf("protocol: unknown packet id=%d frequency=%s", e.ID, e.Frequency).Error()
}

// DecodeBody selects a concrete variant by (id, frequency) and parses it.
func DecodeBody(id uint32, frequency Frequency, data []byte) (Body, error) {
	def, ok := registry[packetKey{id: id, frequency: frequency}]
	if !ok {
		return nil, ErrUnknownPacket{ID: id, Frequency: frequency}
	}
	body, err := def.decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "protocol: decode %s", def.name)
	}
	return body, nil
}

// VariantName returns the registered name for (id, frequency), or "" if
// unregistered.
func VariantName(id uint32, frequency Frequency) string {
	if def, ok := registry[packetKey{id: id, frequency: frequency}]; ok {
		return def.name
	}
	return ""
}

// EncodeBody is a thin alias kept for symmetry with DecodeBody; every Body
// already knows how to serialize itself.
func EncodeBody(b Body) []byte {
	return b.ToBytes()
}

// Packet pairs a decoded Header with its typed Body.
type Packet struct {
	Header Header
	Body   Body
}

// StripAppendedAcks parses the trailing ack tail described in §4.1: when present
// it is a count byte N preceded by N little-endian u32 sequence numbers.
// It returns the acks and the body bytes with the tail stripped.
func StripAppendedAcks(body []byte) (acks []uint32, remainder []byte, err error) {
	if len(body) == 0 {
		return nil, body, errors.New("protocol: appended-acks flag set on empty body")
	}
	count := int(body[len(body)-1])
	tailLen := 1 + count*4
	if tailLen > len(body) {
		return nil, nil, errors.New("protocol: appended-acks tail truncated")
	}
	tail := body[len(body)-tailLen : len(body)-1]
	s := NewReader(tail)
	acks = make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		v, err := s.ReadUint32LE()
		if err != nil {
			return nil, nil, errors.Wrap(err, "protocol: appended ack")
		}
		acks = append(acks, v)
	}
	return acks, body[:len(body)-tailLen], nil
}

// AppendAcks appends an ack tail in the wire format consumed by
// StripAppendedAcks, in FIFO order.
func AppendAcks(body []byte, acks []uint32) []byte {
	s := NewWriter()
	s.WriteBytes(body)
	for _, a := range acks {
		s.WriteUint32LE(a)
	}
	s.WriteByte(byte(len(acks)))
	return s.Bytes()
}
