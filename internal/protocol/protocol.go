// Package protocol holds the wire-level constants shared by the ephemeral
// form server and its handler: the endpoint prefix, timing budgets, and
// the safety cap applied when the caller hasn't configured one.
package protocol

import "time"

const (
	// EndpointPrefix is prepended to the per-run random suffix to form
	// the endpoint path both GET and POST must address.
	EndpointPrefix = "/readform_"

	// CSRFFieldName is the hidden field carrying the per-run CSRF token.
	CSRFFieldName = "_csrf_token"

	// DefaultMaxBodySize bounds a POST body when max-total-size has not
	// been configured (max-file-size does not affect this cap).
	DefaultMaxBodySize = 20 << 20 // 20 MiB
)

var (
	// AcceptPollInterval bounds how long a single accept() call blocks,
	// so the accept loop periodically observes the shutdown signal even
	// when no client ever connects.
	AcceptPollInterval = 1 * time.Second

	// ShutdownJoinWait is how long the caller waits for the accept loop
	// to exit cleanly after the shutdown signal fires before force-closing.
	ShutdownJoinWait = 2 * time.Second

	// SuccessSettleDelay is the brief pause between writing a successful
	// response and closing the listener, so the response has time to
	// flush to the socket before the server tears down.
	SuccessSettleDelay = 50 * time.Millisecond
)
