package cliargs

import (
	"io"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	a, err := Parse([]string{"--html", "<form></form>"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Host != "127.0.0.1" || a.TimeoutSeconds != 300 || a.CancelLabel != "Cancel" {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	if !a.ResetTimeoutOnError {
		t.Fatal("expected reset-timeout-on-error to default true")
	}
}

func TestParse_MutuallyExclusiveInputSources(t *testing.T) {
	_, err := Parse([]string{"--html", "<form></form>", "--htmlfile", "x.html"}, io.Discard)
	if err == nil {
		t.Fatal("expected error for two input sources")
	}
}

func TestParse_RepeatedFieldFlag(t *testing.T) {
	a, err := Parse([]string{"--field", "name:text", "--field", "email:email"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Fields) != 2 {
		t.Fatalf("got %v", a.Fields)
	}
}

func TestParse_LaunchBrowserBareMeansSystemDefault(t *testing.T) {
	a, err := Parse([]string{"--html", "<form></form>", "--launch-browser"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.LaunchBrowserSet || a.LaunchBrowser != "" {
		t.Fatalf("got set=%v path=%q", a.LaunchBrowserSet, a.LaunchBrowser)
	}
}

func TestParse_LaunchBrowserWithExplicitPath(t *testing.T) {
	a, err := Parse([]string{"--html", "<form></form>", "--launch-browser=/usr/bin/firefox"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.LaunchBrowserSet || a.LaunchBrowser != "/usr/bin/firefox" {
		t.Fatalf("got set=%v path=%q", a.LaunchBrowserSet, a.LaunchBrowser)
	}
}

func TestParse_InvalidPortRange(t *testing.T) {
	_, err := Parse([]string{"--html", "<form></form>", "--port", "99999"}, io.Discard)
	if err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestParse_CertRequiresKey(t *testing.T) {
	_, err := Parse([]string{"--html", "<form></form>", "--cert", "a.pem"}, io.Discard)
	if err == nil {
		t.Fatal("expected error for --cert without --key")
	}
}

func TestParse_NonPositiveTimeoutRejected(t *testing.T) {
	_, err := Parse([]string{"--html", "<form></form>", "--timeout", "0"}, io.Discard)
	if err == nil {
		t.Fatal("expected error for zero timeout")
	}
}
