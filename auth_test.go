package dhis2

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBasicAuthHeadersRoundTrip(t *testing.T) {
	headers := basicAuthHeaders("admin", "district:pass")

	auth := headers["Authorization"]
	if !strings.HasPrefix(auth, "Basic ") {
		t.Fatalf("expected Basic scheme, got %q", auth)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if got := string(decoded); got != "admin:district:pass" {
		t.Fatalf("expected admin:district:pass, got %q", got)
	}
}

func TestBasicAuthHeadersContentNegotiation(t *testing.T) {
	headers := basicAuthHeaders("u", "p")

	if got := headers["Accept"]; got != "application/json" {
		t.Fatalf("Accept = %q", got)
	}
	if got := headers["Content-Type"]; got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if len(headers) != 3 {
		t.Fatalf("expected 3 headers, got %d", len(headers))
	}
}
