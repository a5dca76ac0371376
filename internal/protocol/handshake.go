package protocol

import "time"

// Per-connection timeouts applied to the ephemeral http.Server, distinct
// from the overall submission deadline: these bound a single slow or
// stalled connection rather than the whole run.
var (
	ReadTimeout  = 30 * time.Second
	WriteTimeout = 30 * time.Second
	IdleTimeout  = 60 * time.Second
)
