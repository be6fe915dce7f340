// Package protocol implements the binary framing for the LLUDP packet
// family used between a viewer and a region simulator: header parsing,
// the per-packet body codec, and zero-run decompression.
package protocol

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrBufferOverflow is returned whenever a read would run past the end of
// the underlying buffer.
var ErrBufferOverflow = errors.New("protocol: buffer overflow")

// Stream is a cursor over a byte buffer that can be used for either
// sequential reads or sequential writes. Most LLUDP packet bodies mix
// little-endian and big-endian fields, so each accessor spells out its
// endianness rather than assuming one.
type Stream struct {
	data   []byte
	offset int
}

// NewReader wraps an existing buffer for sequential reads.
func NewReader(data []byte) *Stream {
	return &Stream{data: data}
}

// NewWriter returns an empty stream for sequential writes.
func NewWriter() *Stream {
	return &Stream{data: make([]byte, 0, 64)}
}

// Bytes returns the stream's underlying buffer.
func (s *Stream) Bytes() []byte {
	return s.data
}

// Remaining reports how many unread bytes are left.
func (s *Stream) Remaining() int {
	return len(s.data) - s.offset
}

func (s *Stream) ReadByte() (byte, error) {
	if s.offset >= len(s.data) {
		return 0, ErrBufferOverflow
	}
	b := s.data[s.offset]
	s.offset++
	return b, nil
}

func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 || s.offset+n > len(s.data) {
		return nil, ErrBufferOverflow
	}
	out := make([]byte, n)
	copy(out, s.data[s.offset:s.offset+n])
	s.offset += n
	return out, nil
}

func (s *Stream) ReadUint16LE() (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s *Stream) ReadUint16BE() (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (s *Stream) ReadUint32LE() (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s *Stream) ReadUint32BE() (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (s *Stream) ReadUint64LE() (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (s *Stream) ReadUint64BE() (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (s *Stream) ReadInt32LE() (int32, error) {
	v, err := s.ReadUint32LE()
	return int32(v), err
}

func (s *Stream) ReadInt32BE() (int32, error) {
	v, err := s.ReadUint32BE()
	return int32(v), err
}

func (s *Stream) ReadFloat32LE() (float32, error) {
	v, err := s.ReadUint32LE()
	if err != nil {
		return 0, err
	}
	return math32frombits(v), nil
}

// ReadUUID reads 16 raw bytes, most-significant byte first.
func (s *Stream) ReadUUID() (uuid.UUID, error) {
	b, err := s.ReadBytes(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.UUID{}, errors.Wrap(err, "protocol: malformed uuid")
	}
	return id, nil
}

// ReadVarString16 reads a u16-length-prefixed (little-endian), non-nul
// terminated string.
func (s *Stream) ReadVarString16() (string, error) {
	n, err := s.ReadUint16LE()
	if err != nil {
		return "", err
	}
	b, err := s.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Stream) WriteByte(b byte) {
	s.data = append(s.data, b)
}

func (s *Stream) WriteBytes(b []byte) {
	s.data = append(s.data, b...)
}

func (s *Stream) WriteUint16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	s.data = append(s.data, b[:]...)
}

func (s *Stream) WriteUint16BE(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	s.data = append(s.data, b[:]...)
}

func (s *Stream) WriteUint32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.data = append(s.data, b[:]...)
}

func (s *Stream) WriteUint32BE(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.data = append(s.data, b[:]...)
}

func (s *Stream) WriteUint64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.data = append(s.data, b[:]...)
}

func (s *Stream) WriteUint64BE(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	s.data = append(s.data, b[:]...)
}

func (s *Stream) WriteInt32LE(v int32) {
	s.WriteUint32LE(uint32(v))
}

func (s *Stream) WriteInt32BE(v int32) {
	s.WriteUint32BE(uint32(v))
}

func (s *Stream) WriteFloat32LE(f float32) {
	s.WriteUint32LE(math32bits(f))
}

// WriteUUID writes 16 raw bytes, most-significant byte first.
func (s *Stream) WriteUUID(id uuid.UUID) {
	s.data = append(s.data, id[:]...)
}

// WriteVarString16 writes a u16-length-prefixed (little-endian) string.
func (s *Stream) WriteVarString16(v string) {
	s.WriteUint16LE(uint16(len(v)))
	s.data = append(s.data, v...)
}
