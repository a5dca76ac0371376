// Package qr prints a scannable terminal QR code for the form URL, so a
// phone on the same network can open it without retyping anything.
package qr

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrEncode is the sentinel cause for a QR encoding failure.
var ErrEncode = errors.New("qr encode")

// Print writes content (the form URL) to w as an ASCII-art QR code using
// half-block characters, the way the teacher's ui.PrintQR did before a
// browser launch.
func Print(w io.Writer, content string) error {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return errors.Wrapf(ErrEncode, "%q: %v", content, err)
	}
	art := code.ToSmallString(false)
	_, err = fmt.Fprint(w, art)
	return err
}
