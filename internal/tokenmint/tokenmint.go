// Package tokenmint draws the per-run CSRF token and endpoint-path suffix
// from a cryptographically secure RNG (spec.md §4.4).
package tokenmint

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/webform-cli/readwebform/internal/protocol"
)

// CSRFToken draws 16 random bytes and returns their lowercase-hex
// encoding — the primary authorisation for POST.
func CSRFToken() (string, error) {
	return randomHex(16)
}

// EndpointPath draws 8 random bytes and returns protocol.EndpointPrefix
// followed by their lowercase-hex encoding. Unpredictability here is a
// soft defence only; the CSRF token is what actually authorises a POST.
func EndpointPath() (string, error) {
	suffix, err := randomHex(8)
	if err != nil {
		return "", err
	}
	return protocol.EndpointPrefix + suffix, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}
	return hex.EncodeToString(buf), nil
}

// Equal compares two tokens for exact equality in constant time, so a
// timing side-channel can't be used to guess the CSRF token byte by byte.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
