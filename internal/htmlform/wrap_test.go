package htmlform

import (
	"strings"
	"testing"
)

func TestWrap_FragmentGetsFullDocument(t *testing.T) {
	out := Wrap(`<form><input name="x"></form>`, "My Form", "Fill this in")
	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Fatalf("expected a full document, got %q", out)
	}
	if !strings.Contains(out, "<title>My Form</title>") {
		t.Fatalf("expected injected title, got %q", out)
	}
	if !strings.Contains(out, "Fill this in") {
		t.Fatalf("expected injected text, got %q", out)
	}
}

func TestWrap_ExistingDocumentGetsTitleSpliced(t *testing.T) {
	doc := "<!DOCTYPE html><html><head></head><body><form></form></body></html>"
	out := Wrap(doc, "Existing", "")
	if !strings.Contains(out, "<title>Existing</title>") {
		t.Fatalf("expected spliced title, got %q", out)
	}
}

func TestWrap_ExistingDocumentKeepsOwnTitle(t *testing.T) {
	doc := "<!DOCTYPE html><html><head><title>Keep Me</title></head><body><form></form></body></html>"
	out := Wrap(doc, "Ignored", "")
	if strings.Count(out, "<title>") != 1 || !strings.Contains(out, "Keep Me") {
		t.Fatalf("expected original title preserved, got %q", out)
	}
}
