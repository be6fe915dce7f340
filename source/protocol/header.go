package protocol

import "github.com/pkg/errors"

// Frequency is the packet-id prefix scheme described in §6.1: High packets
// use a single byte, Medium/Low/Fixed packets use progressively longer
// 0xFF-prefixed escapes.
type Frequency int

const (
	FrequencyHigh Frequency = iota
	FrequencyMedium
	FrequencyLow
	FrequencyFixed
)

func (f Frequency) String() string {
	switch f {
	case FrequencyHigh:
		return "High"
	case FrequencyMedium:
		return "Medium"
	case FrequencyLow:
		return "Low"
	case FrequencyFixed:
		return "Fixed"
	default:
		return "Unknown"
	}
}

const (
	flagZeroCoded    = 0x80
	flagReliable     = 0x40
	flagResent       = 0x20
	flagAppendedAcks = 0x10
)

// Header is the fixed-format LLUDP datagram header: a flag byte, a
// sequence number, an opaque extra-header region, and a frequency-prefixed
// message ID.
type Header struct {
	ZeroCoded    bool
	Reliable     bool
	Resent       bool
	AppendedAcks bool
	Sequence     uint32
	Extra        []byte
	Frequency    Frequency
	ID           uint32
}

// ErrMalformedHeader is returned by DecodeHeader on truncation or an
// unrecognized frequency prefix.
var ErrMalformedHeader = errors.New("protocol: malformed header")

// DecodeHeader parses the fixed header described in §6.1 and returns the
// offset of the first body byte (the appended-acks tail, if any, is still
// included in that range; Circuit strips it separately).
func DecodeHeader(data []byte) (Header, int, error) {
	if len(data) < 6 {
		return Header{}, 0, ErrMalformedHeader
	}
	flags := data[0]
	h := Header{
		ZeroCoded:    flags&flagZeroCoded != 0,
		Reliable:     flags&flagReliable != 0,
		Resent:       flags&flagResent != 0,
		AppendedAcks: flags&flagAppendedAcks != 0,
	}
	s := NewReader(data[1:])
	seq, err := s.ReadUint32BE()
	if err != nil {
		return Header{}, 0, errors.Wrap(ErrMalformedHeader, "sequence number")
	}
	h.Sequence = seq

	extraLen, err := s.ReadByte()
	if err != nil {
		return Header{}, 0, errors.Wrap(ErrMalformedHeader, "extra length")
	}
	extra, err := s.ReadBytes(int(extraLen))
	if err != nil {
		return Header{}, 0, errors.Wrap(ErrMalformedHeader, "extra header")
	}
	h.Extra = extra

	b0, err := s.ReadByte()
	if err != nil {
		return Header{}, 0, errors.Wrap(ErrMalformedHeader, "frequency prefix")
	}
	if b0 != 0xFF {
		h.Frequency = FrequencyHigh
		h.ID = uint32(b0)
	} else {
		b1, err := s.ReadByte()
		if err != nil {
			return Header{}, 0, errors.Wrap(ErrMalformedHeader, "frequency prefix")
		}
		if b1 != 0xFF {
			h.Frequency = FrequencyMedium
			h.ID = uint32(b1)
		} else {
			b2, err := s.ReadByte()
			if err != nil {
				return Header{}, 0, errors.Wrap(ErrMalformedHeader, "frequency prefix")
			}
			if b2 == 0xFF {
				id, err := s.ReadByte()
				if err != nil {
					return Header{}, 0, errors.Wrap(ErrMalformedHeader, "fixed id")
				}
				h.Frequency = FrequencyFixed
				h.ID = uint32(id)
			} else {
				b3, err := s.ReadByte()
				if err != nil {
					return Header{}, 0, errors.Wrap(ErrMalformedHeader, "low id")
				}
				h.Frequency = FrequencyLow
				h.ID = uint32(b2)<<8 | uint32(b3)
			}
		}
	}

	bodyOffset := 1 + s.offset
	return h, bodyOffset, nil
}

// EncodeHeader serializes a Header back to its wire form.
func EncodeHeader(h Header) []byte {
	s := NewWriter()
	var flags byte
	if h.ZeroCoded {
		flags |= flagZeroCoded
	}
	if h.Reliable {
		flags |= flagReliable
	}
	if h.Resent {
		flags |= flagResent
	}
	if h.AppendedAcks {
		flags |= flagAppendedAcks
	}
	s.WriteByte(flags)
	s.WriteUint32BE(h.Sequence)
	s.WriteByte(byte(len(h.Extra)))
	s.WriteBytes(h.Extra)

	switch h.Frequency {
	case FrequencyHigh:
		s.WriteByte(byte(h.ID))
	case FrequencyMedium:
		s.WriteByte(0xFF)
		s.WriteByte(byte(h.ID))
	case FrequencyLow:
		s.WriteByte(0xFF)
		s.WriteByte(0xFF)
		s.WriteUint16BE(uint16(h.ID))
	case FrequencyFixed:
		s.WriteByte(0xFF)
		s.WriteByte(0xFF)
		s.WriteByte(0xFF)
		s.WriteByte(byte(h.ID))
	}
	return s.Bytes()
}
