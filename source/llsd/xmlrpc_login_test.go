package llsd

import (
	"strings"
	"testing"
)

func TestEncodeLoginRequestContainsFields(t *testing.T) {
	req := LoginRequest{
		First:        "Test",
		Last:         "User",
		Passwd:       "$1$d41d8cd98f00b204e9800998ecf8427e",
		Start:        "home",
		Channel:      "x",
		AgreeToTos:   true,
		ReadCritical: true,
	}
	body := string(EncodeLoginRequest(req))
	if !strings.Contains(body, "login_to_simulator") {
		t.Error("expected methodName login_to_simulator")
	}
	if !strings.Contains(body, "Test") || !strings.Contains(body, "User") {
		t.Error("expected first/last name in body")
	}
}

func TestDecodeLoginResponseSuccess(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><methodResponse><params><param><value><struct>
		<member><name>agent_id</name><value><string>11111111-2222-3333-4444-000100bba000</string></value></member>
		<member><name>session_id</name><value><string>6ac2e761-0000-0000-0000-000000000000</string></value></member>
		<member><name>circuit_code</name><value><int>697482820</int></value></member>
		<member><name>sim_ip</name><value><string>127.0.0.1</string></value></member>
		<member><name>sim_port</name><value><int>20001</int></value></member>
		<member><name>seed_capability</name><value><string>http://127.0.0.1/CAPS/abc</string></value></member>
	</struct></value></param></params></methodResponse>`)

	resp, err := DecodeLoginResponse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success response")
	}
	if resp.CircuitCode != 697482820 {
		t.Errorf("expected circuit code 697482820, got %d", resp.CircuitCode)
	}
	if resp.SeedCapability != "http://127.0.0.1/CAPS/abc" {
		t.Errorf("unexpected seed capability: %q", resp.SeedCapability)
	}
}

func TestDecodeLoginResponseFailure(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?><methodResponse><params><param><value><struct>
		<member><name>reason</name><value><string>presence</string></value></member>
		<member><name>message</name><value><string>already online</string></value></member>
	</struct></value></param></params></methodResponse>`)

	resp, err := DecodeLoginResponse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure response")
	}
	if resp.ErrReason != ReasonPresence {
		t.Errorf("expected presence reason, got %q", resp.ErrReason)
	}
	if resp.ErrMessage != "already online" {
		t.Errorf("unexpected message: %q", resp.ErrMessage)
	}
}
