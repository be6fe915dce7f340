// Package llsd implements the Linden Lab Structured Data (LLSD) value
// model and its XML serialization, used for login XML-RPC bodies and
// capability request/response payloads.
package llsd

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the closed set of LLSD value types.
type Kind int

const (
	KindUndef Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindString
	KindUUID
	KindDate
	KindURI
	KindBinary
	KindArray
	KindMap
)

// Value is a tagged union over the LLSD type system. Exactly one of the
// typed fields is meaningful, selected by Kind.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Real    float64
	Str     string
	UUID    uuid.UUID
	Date    time.Time
	Binary  []byte
	Array   []Value
	Map     map[string]Value
}

func Undef() Value                  { return Value{Kind: KindUndef} }
func Boolean(b bool) Value          { return Value{Kind: KindBoolean, Bool: b} }
func Integer(i int64) Value         { return Value{Kind: KindInteger, Int: i} }
func Real(f float64) Value          { return Value{Kind: KindReal, Real: f} }
func String(s string) Value         { return Value{Kind: KindString, Str: s} }
func UUIDValue(id uuid.UUID) Value  { return Value{Kind: KindUUID, UUID: id} }
func Date(t time.Time) Value        { return Value{Kind: KindDate, Date: t} }
func URI(s string) Value            { return Value{Kind: KindURI, Str: s} }
func Binary(b []byte) Value         { return Value{Kind: KindBinary, Binary: b} }
func Array(vs ...Value) Value       { return Value{Kind: KindArray, Array: vs} }
func Map(m map[string]Value) Value  { return Value{Kind: KindMap, Map: m} }

// Get returns a map value's entry, or Undef if absent or not a map.
func (v Value) Get(key string) Value {
	if v.Kind != KindMap {
		return Undef()
	}
	if child, ok := v.Map[key]; ok {
		return child
	}
	return Undef()
}

// AsString returns the value's string form, or "" if not a String/URI.
func (v Value) AsString() string {
	if v.Kind == KindString || v.Kind == KindURI {
		return v.Str
	}
	return ""
}
