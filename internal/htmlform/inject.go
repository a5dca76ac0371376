package htmlform

import "regexp"

var formOpenTagOnce = regexp.MustCompile(`(?i)<form[^>]*>`)

// InjectCSRF splices a hidden _csrf_token field in as the first child of
// doc's (first) <form> element and rewrites that form's action/method to
// point at the minted endpoint, regardless of what the caller's HTML
// specified. This fulfils the "Stored HTML contract" of spec.md §6 —
// upstream wrapping hands the core a document still carrying whatever
// action the caller wrote, and the core corrects it here before serving
// (grounded on parser.py's inject_csrf_token).
func InjectCSRF(doc, csrfToken, endpoint string) string {
	replaced := false
	doc = formOpenTagOnce.ReplaceAllStringFunc(doc, func(tag string) string {
		if replaced {
			return tag
		}
		replaced = true
		tag = stripAttr(tag, "action")
		tag = stripAttr(tag, "method")
		tag = tag[:len(tag)-1] + ` action="` + endpoint + `" method="POST">`
		hidden := `<input type="hidden" name="_csrf_token" value="` + csrfToken + `">`
		return tag + hidden
	})
	return doc
}

// stripAttr removes every occurrence of a double-quoted, single-quoted,
// or unquoted name="..." attribute from an HTML start tag. Used to drop
// the caller's action/method before InjectCSRF writes its own, so the
// rewritten tag never ends up with a duplicate attribute — browsers take
// the first occurrence of a repeated attribute, which would otherwise
// silently keep the caller's original (possibly non-POST) method.
func stripAttr(formTag, name string) string {
	quoted := regexp.MustCompile(`(?i)\s+` + name + `\s*=\s*"[^"]*"`)
	singleQuoted := regexp.MustCompile(`(?i)\s+` + name + `\s*=\s*'[^']*'`)
	unquoted := regexp.MustCompile(`(?i)\s+` + name + `\s*=\s*[^\s>]+`)
	formTag = quoted.ReplaceAllString(formTag, "")
	formTag = singleQuoted.ReplaceAllString(formTag, "")
	formTag = unquoted.ReplaceAllString(formTag, "")
	return formTag
}
