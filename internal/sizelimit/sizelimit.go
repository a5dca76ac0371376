// Package sizelimit turns human-friendly byte-count strings ("5M", "200K",
// "1G", or a plain number) into byte counts.
package sizelimit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidSize is the sentinel cause wrapped by Parse on malformed input.
var ErrInvalidSize = errors.New("invalid size limit")

var pattern = regexp.MustCompile(`^[0-9]+[KMGkmg]?$`)

const (
	kibibyte = 1024
	mebibyte = kibibyte * 1024
	gibibyte = mebibyte * 1024
)

// Parse converts a size-limit string to a byte count. An empty string
// means "no limit" and Parse returns (0, false, nil). Any string not
// matching ^[0-9]+[KMG]?$ (case-insensitive) returns ErrInvalidSize.
func Parse(raw string) (bytes int64, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	if !pattern.MatchString(raw) {
		return 0, false, errors.Wrapf(ErrInvalidSize, "%q (expected digits with optional K/M/G suffix)", raw)
	}

	upper := strings.ToUpper(raw)
	suffix := upper[len(upper)-1]
	numPart := upper
	multiplier := int64(1)
	switch suffix {
	case 'K':
		multiplier = kibibyte
		numPart = upper[:len(upper)-1]
	case 'M':
		multiplier = mebibyte
		numPart = upper[:len(upper)-1]
	case 'G':
		multiplier = gibibyte
		numPart = upper[:len(upper)-1]
	}

	value, convErr := strconv.ParseInt(numPart, 10, 64)
	if convErr != nil {
		return 0, false, errors.Wrapf(ErrInvalidSize, "%q: %v", raw, convErr)
	}
	return value * multiplier, true, nil
}
