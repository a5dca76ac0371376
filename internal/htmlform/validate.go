// Package htmlform implements the HTML-fragment collaborators spec.md
// treats as external: wrapping a fragment into a full document, validating
// it carries exactly one form, injecting the CSRF token, and generating
// markup from declarative field specs.
package htmlform

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ValidationResult reports what Validate found.
type ValidationResult struct {
	FormCount       int
	FormAction      string
	HasSubmitButton bool
}

// Validate tokenizes doc and reports how many <form> elements it
// contains, the action attribute of the last form seen (for the caller to
// check with IsExternalURL), and whether a submit control was found. It mirrors the original implementation's
// html.parser-based FormDetector, rebuilt on golang.org/x/net/html's
// streaming tokenizer instead of a full DOM parse — cheaper, and the only
// thing this check needs is start-tag/end-tag events.
func Validate(doc string) (ValidationResult, error) {
	var result ValidationResult
	inForm := false

	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return result, nil // io.EOF is the expected terminal condition
		case html.StartTagToken, html.SelfClosingTagToken:
			tag, attrs := tokenTag(z)
			switch tag {
			case "form":
				result.FormCount++
				inForm = true
				result.FormAction = attrs["action"]
			case "input":
				if inForm && strings.EqualFold(attrOr(attrs, "type", "text"), "submit") {
					result.HasSubmitButton = true
				}
			case "button":
				if inForm && strings.EqualFold(attrOr(attrs, "type", "submit"), "submit") {
					result.HasSubmitButton = true
				}
			}
		case html.EndTagToken:
			tag, _ := tokenTag(z)
			if tag == "form" {
				inForm = false
			}
		}
	}
}

func tokenTag(z *html.Tokenizer) (string, map[string]string) {
	name, hasAttr := z.TagName()
	attrs := map[string]string{}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return string(name), attrs
}

func attrOr(attrs map[string]string, key, def string) string {
	if v, ok := attrs[key]; ok {
		return v
	}
	return def
}

var externalURLPattern = regexp.MustCompile(`(?i)^(https?:)?//`)

// IsExternalURL reports whether url is absolute or protocol-relative,
// i.e. points away from this server (spec.md supplement, grounded on
// parser.py's is_external_url).
func IsExternalURL(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	return externalURLPattern.MatchString(url)
}
