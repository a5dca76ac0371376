package formdata

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Decode error kinds (spec.md §4.2, §7). Each is a distinct sentinel so
// the handler can disposition the HTTP response without string matching.
var (
	ErrTotalSizeExceeded  = errors.New("total upload size exceeds limit")
	ErrFileSizeExceeded   = errors.New("file size exceeds limit")
	ErrMalformedMultipart = errors.New("malformed multipart body")
)

const defaultFileContentType = "application/octet-stream"

var (
	boundaryPattern = regexp.MustCompile(`(?i)boundary=([^;]+)`)
	dispositionParam = func(param string) *regexp.Regexp {
		return regexp.MustCompile(`(?i)(?:^|[;\s])` + param + `=(?:"([^"]*)"|([^;\s]+))`)
	}
	nameParam     = dispositionParam("name")
	filenameParam = dispositionParam("filename")
)

// DecodeMultipart parses a multipart/form-data body into a FormData,
// enforcing maxTotalSize (whole body, 0 = no limit) before any parsing
// begins and maxFileSize (per file, 0 = no limit) on each file part as it
// is decoded.
func DecodeMultipart(body []byte, contentType string, maxFileSize, maxTotalSize int64) (*FormData, error) {
	if maxTotalSize > 0 && int64(len(body)) > maxTotalSize {
		return nil, errors.Wrapf(ErrTotalSizeExceeded, "body is %d bytes, limit %d", len(body), maxTotalSize)
	}

	boundary := extractBoundary(contentType)
	if boundary == "" {
		return nil, errors.Wrap(ErrMalformedMultipart, "no boundary found in Content-Type header")
	}

	fd := New()
	for _, part := range splitParts(body, boundary) {
		if len(part) == 0 {
			continue
		}
		headers, content := splitHeadersAndContent(part)
		disposition := headers["content-disposition"]

		name := extractParam(nameParam, disposition)
		filename, hasFilename := extractParamPresence(filenameParam, disposition)

		if hasFilename {
			if maxFileSize > 0 && int64(len(content)) > maxFileSize {
				return nil, errors.Wrapf(ErrFileSizeExceeded, "file %q is %d bytes, limit %d", filename, len(content), maxFileSize)
			}
			ct := headers["content-type"]
			if ct == "" {
				ct = defaultFileContentType
			}
			fd.AddFile(name, UploadedFile{Filename: filename, Content: content, ContentType: ct})
			continue
		}

		if utf8.Valid(content) {
			fd.AddField(name, string(content))
		} else {
			// Tolerant-by-design: a field that isn't valid UTF-8 degrades
			// to an empty value rather than aborting the whole submission
			// (spec.md §4.2, §9 "Open behavior").
			fd.AddField(name, "")
		}
	}

	return fd, nil
}

// DecodeURLEncoded parses an application/x-www-form-urlencoded body,
// preserving blank values and repeated-key ordering.
func DecodeURLEncoded(body []byte) (*FormData, error) {
	fd := New()
	if !utf8.Valid(body) {
		return fd, nil
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse urlencoded body")
	}
	// url.Values is an unordered map[string][]string, so the order of
	// distinct keys in the body is lost here and FieldOrder follows map
	// iteration order; per-key repetition order, which ParseQuery
	// preserves, is kept.
	for key, vals := range values {
		for _, v := range vals {
			fd.AddField(key, v)
		}
	}
	return fd, nil
}

func extractBoundary(contentType string) string {
	m := boundaryPattern.FindStringSubmatch(contentType)
	if m == nil {
		return ""
	}
	boundary := strings.TrimSpace(m[1])
	if len(boundary) >= 2 && boundary[0] == '"' && boundary[len(boundary)-1] == '"' {
		boundary = boundary[1 : len(boundary)-1]
	}
	return boundary
}

// splitParts splits a multipart body on "--boundary", discards the
// preamble, stops at the closing "--boundary--" marker, and trims a
// single leading CRLF/LF off each remaining part (spec.md §4.2).
func splitParts(body []byte, boundary string) [][]byte {
	marker := []byte("--" + boundary)
	segments := bytes.Split(body, marker)
	if len(segments) == 0 {
		return nil
	}
	segments = segments[1:] // discard preamble

	var parts [][]byte
	for _, seg := range segments {
		if bytes.HasPrefix(seg, []byte("--")) {
			break // closing boundary marker
		}
		seg = trimLeadingNewline(seg)
		if len(seg) > 0 {
			parts = append(parts, seg)
		}
	}
	return parts
}

func trimLeadingNewline(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("\r\n")) {
		return b[2:]
	}
	if bytes.HasPrefix(b, []byte("\n")) {
		return b[1:]
	}
	return b
}

// splitHeadersAndContent separates a part's header block from its body on
// the first blank-line separator (CRLF CRLF or LF LF, to tolerate
// non-conforming clients), then right-trims exactly one trailing
// CRLF/LF — the boundary separator — from the content.
func splitHeadersAndContent(part []byte) (map[string]string, []byte) {
	var headerData, content []byte
	if idx := bytes.Index(part, []byte("\r\n\r\n")); idx >= 0 {
		headerData, content = part[:idx], part[idx+4:]
	} else if idx := bytes.Index(part, []byte("\n\n")); idx >= 0 {
		headerData, content = part[:idx], part[idx+2:]
	} else {
		headerData, content = part, nil
	}

	if bytes.HasSuffix(content, []byte("\r\n")) {
		content = content[:len(content)-2]
	} else if bytes.HasSuffix(content, []byte("\n")) {
		content = content[:len(content)-1]
	}

	return parseHeaders(headerData), content
}

// parseHeaders parses a block of "Key: value" lines (tolerating bare LF
// line endings), lower-casing keys so lookups are case-insensitive.
func parseHeaders(data []byte) map[string]string {
	headers := make(map[string]string)
	lines := bytes.FieldsFunc(data, func(r rune) bool { return r == '\r' || r == '\n' })
	for _, line := range lines {
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(string(line[:colon])))
		val := strings.TrimSpace(string(line[colon+1:]))
		headers[key] = val
	}
	return headers
}

// extractParam returns the value of param in a Content-Disposition-style
// header, or "" if absent.
func extractParam(re *regexp.Regexp, header string) string {
	v, _ := extractParamPresence(re, header)
	return v
}

// extractParamPresence additionally reports whether param was present at
// all, which matters for filename="" (an empty but present filename still
// marks the part as a file part — spec.md §4.2).
func extractParamPresence(re *regexp.Regexp, header string) (string, bool) {
	loc := re.FindStringSubmatchIndex(header)
	if loc == nil {
		return "", false
	}
	// loc[2:4] is the quoted-value group, loc[4:6] the bare-value group;
	// a -1 start means that alternative did not participate in the match.
	if loc[2] != -1 {
		return header[loc[2]:loc[3]], true
	}
	return header[loc[4]:loc[5]], true
}
