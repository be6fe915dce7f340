package llsd

// EncodeCapabilityRequest builds the body posted to a region's seed
// capability: an LLSD array of the capability names the viewer wants
// URLs for.
func EncodeCapabilityRequest(names []string) []byte {
	values := make([]Value, len(names))
	for i, n := range names {
		values[i] = String(n)
	}
	return Encode(Array(values...))
}

// DecodeCapabilityMap parses a seed-capability response into a name→URL
// map.
func DecodeCapabilityMap(data []byte) (map[string]string, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for name, entry := range v.Map {
		out[name] = entry.AsString()
	}
	return out, nil
}
