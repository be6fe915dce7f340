package protocol

// Raw is a passthrough Body for packet variants the mailbox recognizes
// by name but does not yet decode field-by-field. Per §6.2, these bodies
// may be handled opaquely until a feature needs their individual fields.
type Raw struct {
	Variant string
	Data    []byte
}

func (p Raw) ToBytes() []byte {
	return p.Data
}

// decodeRaw returns a Decoder that wraps a packet's body bytes as Raw
// without interpreting them, tagging the result with its variant name.
func decodeRaw(variant string) Decoder {
	return func(data []byte) (Body, error) {
		cp := make([]byte, len(data))
		copy(cp, data)
		return Raw{Variant: variant, Data: cp}, nil
	}
}
