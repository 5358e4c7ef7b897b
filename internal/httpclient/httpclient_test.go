package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient(30 * time.Second)
	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", client.Timeout)
	}
	if client.Transport != sharedTransport {
		t.Error("expected shared transport")
	}
}

func TestNewClient_DifferentTimeouts(t *testing.T) {
	c1 := NewClient(5 * time.Second)
	c2 := NewClient(60 * time.Second)

	if c1.Timeout == c2.Timeout {
		t.Error("clients with different timeouts should have different timeouts")
	}

	// Both should share the same transport
	if c1.Transport != c2.Transport {
		t.Error("clients should share the same transport")
	}
}

func TestNewClientWithHeaders(t *testing.T) {
	var gotEditor, gotAgent, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEditor = r.Header.Get("Editor-Version")
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithHeaders(5*time.Second, map[string]string{
		"Editor-Version": "vscode/1.85.0",
		"Authorization":  "Bearer default",
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer explicit")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if gotEditor != "vscode/1.85.0" {
		t.Errorf("expected editor header, got %q", gotEditor)
	}
	if gotAgent != UserAgent {
		t.Errorf("expected user agent %q, got %q", UserAgent, gotAgent)
	}
	if gotAuth != "Bearer explicit" {
		t.Errorf("request header should win, got %q", gotAuth)
	}
}
