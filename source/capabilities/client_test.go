package capabilities

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"metaverse-session/source/llsd"
)

func TestRequestCapabilities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/llsd+xml" {
			t.Errorf("expected llsd content type, got %q", r.Header.Get("Content-Type"))
		}
		w.Write([]byte(`<llsd><map><key>GetMesh</key><string>http://sim/CAPS/GetMesh</string></map></llsd>`))
	}))
	defer srv.Close()

	client := NewClient()
	caps, err := client.RequestCapabilities(context.Background(), srv.URL, []string{"GetMesh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caps["GetMesh"] != "http://sim/CAPS/GetMesh" {
		t.Errorf("expected GetMesh URL, got %q", caps["GetMesh"])
	}
}

func TestCallClassifiesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.Call(context.Background(), http.MethodGet, srv.URL, "", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	callErr, ok := err.(*CallError)
	if !ok {
		t.Fatalf("expected *CallError, got %T", err)
	}
	if callErr.Kind != ErrorHTTP || callErr.Status != http.StatusInternalServerError {
		t.Errorf("expected ErrorHTTP/500, got %+v", callErr)
	}
}

func TestCallCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient()
	_, err := client.Call(ctx, http.MethodGet, srv.URL, "", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	callErr, ok := err.(*CallError)
	if !ok {
		t.Fatalf("expected *CallError, got %T", err)
	}
	if callErr.Kind != ErrorCancelled {
		t.Errorf("expected ErrorCancelled, got %+v", callErr)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><methodResponse><params><param><value><struct>
			<member><name>agent_id</name><value><string>11111111-2222-3333-4444-000100bba000</string></value></member>
			<member><name>session_id</name><value><string>6ac2e761-0000-0000-0000-000000000000</string></value></member>
			<member><name>circuit_code</name><value><int>697482820</int></value></member>
			<member><name>sim_ip</name><value><string>127.0.0.1</string></value></member>
			<member><name>sim_port</name><value><int>20001</int></value></member>
			<member><name>seed_capability</name><value><string>http://127.0.0.1/CAPS/abc</string></value></member>
		</struct></value></param></params></methodResponse>`))
	}))
	defer srv.Close()

	client := NewClient()
	resp, err := client.Login(context.Background(), srv.URL, llsd.LoginRequest{
		First: "Test", Last: "User", Start: "home",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.CircuitCode != 697482820 {
		t.Errorf("unexpected response: %+v", resp)
	}
}
