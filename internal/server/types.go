// Package server implements the ephemeral, single-submission HTTP(S)
// server: bind, serve exactly one successful form submission or time
// out, then shut down (spec.md §4.7, §4.6).
package server

import (
	"github.com/webform-cli/readwebform/internal/formdata"
)

// RunConfig is the immutable configuration a caller hands to Serve.
// Port 0 means auto-select; MaxFileSize/MaxTotalSize of 0 mean
// unconfigured (the handler falls back to protocol.DefaultMaxBodySize
// for the total cap, and imposes no per-file cap).
//
// CSRFToken and EndpointPath are minted by the caller (internal/tokenmint)
// before HTML is built, since the caller must inject them into the HTML
// document's <form> before handing it to Serve — the core only checks
// these values against submissions, it does not decide them (spec.md §6,
// "Stored HTML contract").
type RunConfig struct {
	Host                string
	Port                int
	CertFile            string
	KeyFile             string
	MaxFileSize         int64
	MaxTotalSize        int64
	TimeoutSeconds      int
	ResetTimeoutOnError bool
	HTML                string
	CSRFToken           string
	EndpointPath        string
	Verbose             bool
}

// Outcome is what Serve returns: either a successful submission, or a
// timeout with both fields nil/empty.
type Outcome struct {
	Success bool
	Form    *formdata.FormData
	Files   map[string]formdata.FileValue
}
