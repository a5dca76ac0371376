package tokenmint

import (
	"strings"
	"testing"

	"github.com/webform-cli/readwebform/internal/protocol"
)

func TestCSRFToken(t *testing.T) {
	a, err := CSRFToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars (16 bytes), got %d: %q", len(a), a)
	}
	b, _ := CSRFToken()
	if a == b {
		t.Fatal("two draws produced the same token")
	}
}

func TestEndpointPath(t *testing.T) {
	p, err := EndpointPath()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(p, protocol.EndpointPrefix) {
		t.Fatalf("expected prefix %q, got %q", protocol.EndpointPrefix, p)
	}
	if len(p) != len(protocol.EndpointPrefix)+16 {
		t.Fatalf("expected 16 hex chars after prefix, got %q", p)
	}
}

func TestEqual(t *testing.T) {
	if !Equal("abc", "abc") {
		t.Fatal("expected equal tokens to compare equal")
	}
	if Equal("abc", "abd") {
		t.Fatal("expected different tokens to compare unequal")
	}
	if Equal("abc", "abcd") {
		t.Fatal("expected different-length tokens to compare unequal")
	}
}
