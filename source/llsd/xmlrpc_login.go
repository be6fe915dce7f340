package llsd

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoginRequest carries the parameters of a login_to_simulator XML-RPC
// call, per §6.3.
type LoginRequest struct {
	First        string
	Last         string
	Passwd       string // MD5-prefixed "$1$"+hex
	Start        string // "home", "last", or a URI
	Channel      string
	Version      string
	Platform     string
	Mac          string
	AgreeToTos   bool
	ReadCritical bool
	Options      []string
}

// Reason enumerates the closed set of login failure reasons.
type Reason string

const (
	ReasonPresence   Reason = "presence"
	ReasonKey        Reason = "key"
	ReasonConnection Reason = "connection"
	ReasonUnknown    Reason = "unknown"
)

func parseReason(s string) Reason {
	switch Reason(s) {
	case ReasonPresence, ReasonKey, ReasonConnection:
		return Reason(s)
	default:
		return ReasonUnknown
	}
}

// LoginResponse is the result of a login_to_simulator call: either a
// populated success struct, or Err set with a reason and message.
type LoginResponse struct {
	Success bool

	AgentID           string
	SessionID         string
	SecureSessionID   string
	CircuitCode       uint32
	SimIP             string
	SimPort           uint16
	RegionHandle      uint64
	SeedCapability    string
	FirstName         string
	LastName          string
	LookAt            string
	InventorySkeleton []Value

	ErrReason  Reason
	ErrMessage string
}

// EncodeLoginRequest renders an XML-RPC methodCall envelope for
// login_to_simulator.
func EncodeLoginRequest(r LoginRequest) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><methodCall><methodName>login_to_simulator</methodName><params><param><value><struct>`)
	writeMember(&b, "first", r.First)
	writeMember(&b, "last", r.Last)
	writeMember(&b, "passwd", r.Passwd)
	writeMember(&b, "start", r.Start)
	writeMember(&b, "channel", r.Channel)
	writeMember(&b, "version", r.Version)
	writeMember(&b, "platform", r.Platform)
	writeMember(&b, "mac", r.Mac)
	writeBoolMember(&b, "agree_to_tos", r.AgreeToTos)
	writeBoolMember(&b, "read_critical", r.ReadCritical)
	if len(r.Options) > 0 {
		b.WriteString(`<member><name>options</name><value><array><data>`)
		for _, o := range r.Options {
			b.WriteString("<value><string>")
			xml.EscapeText(&b, []byte(o))
			b.WriteString("</string></value>")
		}
		b.WriteString(`</data></array></value></member>`)
	}
	b.WriteString(`</struct></value></param></params></methodCall>`)
	return []byte(b.String())
}

func writeMember(b *strings.Builder, name, value string) {
	b.WriteString("<member><name>")
	b.WriteString(name)
	b.WriteString("</name><value><string>")
	xml.EscapeText(b, []byte(value))
	b.WriteString("</string></value></member>")
}

func writeBoolMember(b *strings.Builder, name string, value bool) {
	b.WriteString("<member><name>")
	b.WriteString(name)
	b.WriteString("</name><value><boolean>")
	if value {
		b.WriteString("1")
	} else {
		b.WriteString("0")
	}
	b.WriteString("</boolean></value></member>")
}

// xmlrpcValue mirrors the shape of an XML-RPC <value> element enough to
// pull struct member name/value pairs out of a response without a generic XML-RPC library in
// the dependency pack: <methodResponse><params><param><value><struct>
// <member><name/><value>...</value></member>...
type xmlrpcValue struct {
	String string `xml:"string"`
	Int    string `xml:"int"`
	I4     string `xml:"i4"`
	Boolean string `xml:"boolean"`
	Struct xmlrpcStructXML `xml:"struct"`
	Array  xmlrpcArrayXML  `xml:"array"`
}

type xmlrpcMember struct {
	Name  string      `xml:"name"`
	Value xmlrpcValue `xml:"value"`
}

type xmlrpcStructXML struct {
	Members []xmlrpcMember `xml:"member"`
}

type xmlrpcArrayXML struct {
	Data struct {
		Values []xmlrpcValue `xml:"value"`
	} `xml:"data"`
}

type xmlrpcResponse struct {
	XMLName xml.Name `xml:"methodResponse"`
	Params  struct {
		Param struct {
			Value xmlrpcValue `xml:"value"`
		} `xml:"param"`
	} `xml:"params"`
}

// asString returns whichever scalar field XML unmarshaling populated;
// XML-RPC integers and booleans both arrive as element text.
func (v xmlrpcValue) asString() string {
	switch {
	case v.String != "":
		return v.String
	case v.Int != "":
		return v.Int
	case v.I4 != "":
		return v.I4
	case v.Boolean != "":
		return v.Boolean
	default:
		return ""
	}
}

func (m xmlrpcStructXML) lookup(name string) (xmlrpcValue, bool) {
	for _, member := range m.Members {
		if member.Name == name {
			return member.Value, true
		}
	}
	return xmlrpcValue{}, false
}

// DecodeLoginResponse parses an XML-RPC methodResponse body into a
// LoginResponse, distinguishing the success struct from the
// {reason, message} failure struct per §6.3.
func DecodeLoginResponse(data []byte) (LoginResponse, error) {
	var resp xmlrpcResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return LoginResponse{}, errors.Wrap(err, "llsd: decode login response")
	}
	root := resp.Params.Param.Value.Struct

	if reason, ok := root.lookup("reason"); ok {
		message, _ := root.lookup("message")
		return LoginResponse{
			Success:    false,
			ErrReason:  parseReason(reason.asString()),
			ErrMessage: message.asString(),
		}, nil
	}

	get := func(name string) string {
		v, _ := root.lookup(name)
		return v.asString()
	}
	circuitCode, _ := strconv.ParseUint(get("circuit_code"), 10, 32)
	simPort, _ := strconv.ParseUint(get("sim_port"), 10, 16)
	regionHandle, _ := strconv.ParseUint(get("region_handle"), 10, 64)

	var skeleton []Value
	if skelVal, ok := root.lookup("inventory-skeleton"); ok {
		for _, item := range skelVal.Array.Data.Values {
			skeleton = append(skeleton, String(item.asString()))
		}
	}

	return LoginResponse{
		Success:           true,
		AgentID:           get("agent_id"),
		SessionID:         get("session_id"),
		SecureSessionID:   get("secure_session_id"),
		CircuitCode:       uint32(circuitCode),
		SimIP:             get("sim_ip"),
		SimPort:           uint16(simPort),
		RegionHandle:      regionHandle,
		SeedCapability:    get("seed_capability"),
		FirstName:         get("first_name"),
		LastName:          get("last_name"),
		LookAt:            get("look_at"),
		InventorySkeleton: skeleton,
	}, nil
}
