package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestOwnerPath(t *testing.T) {
	origKind, origID := ownerKind, ownerID
	defer func() { ownerKind, ownerID = origKind, origID }()

	ownerKind = "team"
	ownerID = 7

	if got := ownerPath("/wallets/USD/total"); got != "/api/v1/owners/team/7/wallets/USD/total" {
		t.Fatalf("unexpected owner path: %s", got)
	}
}

func TestDoRequestPrintsIndentedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %s", ct)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"currency":"USD"}`))
	}))
	defer server.Close()

	origURL := baseURL
	defer func() { baseURL = origURL }()
	baseURL = server.URL

	out := captureOutput(t, func() {
		doRequest(http.MethodPost, "/api/v1/owners/user/1/wallets", map[string]any{"currency": "USD"})
	})

	if !strings.Contains(out, "\"currency\": \"USD\"") {
		t.Fatalf("expected indented json output, got %q", out)
	}
}
