package llsd

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Encode serializes a Value as an `<llsd>...</llsd>` XML document, the
// wire format used for capability request bodies (the login XML-RPC call
// is encoded separately by EncodeLoginRequest).
func Encode(v Value) []byte {
	var b strings.Builder
	b.WriteString("<llsd>")
	encodeValue(&b, v)
	b.WriteString("</llsd>")
	return []byte(b.String())
}

func encodeValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindUndef:
		b.WriteString("<undef/>")
	case KindBoolean:
		if v.Bool {
			b.WriteString("<boolean>true</boolean>")
		} else {
			b.WriteString("<boolean>false</boolean>")
		}
	case KindInteger:
		b.WriteString("<integer>")
		b.WriteString(strconv.FormatInt(v.Int, 10))
		b.WriteString("</integer>")
	case KindReal:
		b.WriteString("<real>")
		b.WriteString(strconv.FormatFloat(v.Real, 'g', -1, 64))
		b.WriteString("</real>")
	case KindString:
		b.WriteString("<string>")
		xml.EscapeText(b, []byte(v.Str))
		b.WriteString("</string>")
	case KindUUID:
		b.WriteString("<uuid>")
		b.WriteString(v.UUID.String())
		b.WriteString("</uuid>")
	case KindDate:
		b.WriteString("<date>")
		b.WriteString(v.Date.UTC().Format("2006-01-02T15:04:05Z"))
		b.WriteString("</date>")
	case KindURI:
		b.WriteString("<uri>")
		xml.EscapeText(b, []byte(v.Str))
		b.WriteString("</uri>")
	case KindBinary:
		b.WriteString(`<binary encoding="base64">`)
		b.WriteString(base64.StdEncoding.EncodeToString(v.Binary))
		b.WriteString("</binary>")
	case KindArray:
		b.WriteString("<array>")
		for _, e := range v.Array {
			encodeValue(b, e)
		}
		b.WriteString("</array>")
	case KindMap:
		b.WriteString("<map>")
		for k, e := range v.Map {
			b.WriteString("<key>")
			xml.EscapeText(b, []byte(k))
			b.WriteString("</key>")
			encodeValue(b, e)
		}
		b.WriteString("</map>")
	}
}

// Decode parses an `<llsd>...</llsd>` document into a Value.
func Decode(data []byte) (Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, errors.Wrap(err, "llsd: decode")
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != "llsd" {
				return Value{}, errors.Errorf("llsd: unexpected root element %q", start.Name.Local)
			}
			return decodeElement(dec)
		}
	}
}

// decodeElement reads the next start element (skipping whitespace text)
// and parses it into a Value, leaving the decoder positioned just after
// the matching end element.
func decodeElement(dec *xml.Decoder) (Value, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, errors.Wrap(err, "llsd: decode element")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return decodeTyped(dec, t)
		case xml.EndElement:
			return Undef(), errUnexpectedEnd
		}
	}
}

var errUnexpectedEnd = errors.New("llsd: unexpected end element")

func decodeTyped(dec *xml.Decoder, start xml.StartElement) (Value, error) {
	switch start.Name.Local {
	case "undef":
		skipToEnd(dec, start)
		return Undef(), nil
	case "boolean":
		text := readText(dec, start)
		return Boolean(text == "true" || text == "1"), nil
	case "integer":
		text := readText(dec, start)
		i, _ := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		return Integer(i), nil
	case "real":
		text := readText(dec, start)
		f, _ := strconv.ParseFloat(strings.TrimSpace(text), 64)
		return Real(f), nil
	case "string":
		return String(readText(dec, start)), nil
	case "uuid":
		text := strings.TrimSpace(readText(dec, start))
		if text == "" {
			return UUIDValue(uuid.Nil), nil
		}
		id, err := uuid.Parse(text)
		if err != nil {
			return Value{}, errors.Wrap(err, "llsd: uuid")
		}
		return UUIDValue(id), nil
	case "date":
		text := strings.TrimSpace(readText(dec, start))
		t, err := time.Parse("2006-01-02T15:04:05Z", text)
		if err != nil {
			return Value{}, errors.Wrap(err, "llsd: date")
		}
		return Date(t), nil
	case "uri":
		return URI(readText(dec, start)), nil
	case "binary":
		text := strings.TrimSpace(readText(dec, start))
		raw, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return Value{}, errors.Wrap(err, "llsd: binary")
		}
		return Binary(raw), nil
	case "array":
		var items []Value
		for {
			v, done, err := decodeArrayItem(dec)
			if err != nil {
				return Value{}, err
			}
			if done {
				break
			}
			items = append(items, v)
		}
		return Value{Kind: KindArray, Array: items}, nil
	case "map":
		m := map[string]Value{}
		for {
			key, v, done, err := decodeMapEntry(dec)
			if err != nil {
				return Value{}, err
			}
			if done {
				break
			}
			m[key] = v
		}
		return Value{Kind: KindMap, Map: m}, nil
	default:
		skipToEnd(dec, start)
		return Undef(), nil
	}
}

func decodeArrayItem(dec *xml.Decoder) (Value, bool, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, false, errors.Wrap(err, "llsd: array")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			v, err := decodeTyped(dec, t)
			return v, false, err
		case xml.EndElement:
			if t.Name.Local == "array" {
				return Value{}, true, nil
			}
		}
	}
}

func decodeMapEntry(dec *xml.Decoder) (string, Value, bool, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", Value{}, false, errors.Wrap(err, "llsd: map")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "key" {
				return "", Value{}, false, errors.Errorf("llsd: expected <key>, got <%s>", t.Name.Local)
			}
			key := readText(dec, t)
			v, err := decodeElement(dec)
			if err != nil {
				return "", Value{}, false, err
			}
			return key, v, false, nil
		case xml.EndElement:
			if t.Name.Local == "map" {
				return "", Value{}, true, nil
			}
		}
	}
}

// readText consumes CharData tokens until the matching end element for
// start, concatenating them.
func readText(dec *xml.Decoder, start xml.StartElement) string {
	var b strings.Builder
	depth := 1
	for {
		tok, err := dec.Token()
		if err != nil {
			return b.String()
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name == start.Name {
				depth++
			}
		case xml.EndElement:
			if t.Name == start.Name {
				depth--
				if depth == 0 {
					return b.String()
				}
			}
		}
	}
}

func skipToEnd(dec *xml.Decoder, start xml.StartElement) {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name == start.Name {
				depth++
			}
		case xml.EndElement:
			if t.Name == start.Name {
				depth--
			}
		}
	}
}
