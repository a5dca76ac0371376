package server

import (
	"net"
	"time"

	"github.com/webform-cli/readwebform/internal/protocol"
)

// pollingListener wraps a *net.TCPListener so Accept never blocks longer
// than protocol.AcceptPollInterval. A deadline-exceeded Accept returns a
// timeout error that net/http.Server's Serve loop treats as transient and
// retries; this is what lets the accept loop notice a force-closed
// listener promptly instead of blocking indefinitely on a keep-alive
// client (spec.md §4.7 step 3, §9 "Keep-alive vs. shutdown").
type pollingListener struct {
	*net.TCPListener
}

func newPollingListener(ln *net.TCPListener) pollingListener {
	return pollingListener{TCPListener: ln}
}

func (l pollingListener) Accept() (net.Conn, error) {
	if err := l.SetDeadline(time.Now().Add(protocol.AcceptPollInterval)); err != nil {
		return nil, err
	}
	return l.AcceptTCP()
}
