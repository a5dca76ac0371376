package htmlform

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	docMarker    = regexp.MustCompile(`(?i)<!DOCTYPE|<html`)
	headOpenTag  = regexp.MustCompile(`(?i)<head[^>]*>`)
	formOpenTag  = regexp.MustCompile(`(?i)<form[^>]*>`)
	titleTag     = regexp.MustCompile(`(?i)<title>`)
)

// Wrap turns a bare HTML fragment into a complete document, or — if doc
// already looks like a full document — splices a <title> in after <head>
// only if the document has none, and inserts an instructional <p>
// whenever text is non-empty. Mirrors parser.py's
// wrap_html_fragment, including the heuristic of inserting the
// instructional text immediately before the first <form> tag.
func Wrap(doc, title, text string) string {
	if docMarker.MatchString(doc) {
		return wrapExisting(doc, title, text)
	}
	return wrapFragment(doc, title, text)
}

func wrapExisting(doc, title, text string) string {
	if title != "" && !titleTag.MatchString(strings.ToLower(doc)) {
		doc = headOpenTag.ReplaceAllStringFunc(doc, func(m string) string {
			return m + "<title>" + EscapeHTML(title) + "</title>"
		})
	}
	if text != "" {
		inserted := false
		doc = formOpenTag.ReplaceAllStringFunc(doc, func(m string) string {
			if inserted {
				return m
			}
			inserted = true
			return "<p>" + EscapeHTML(text) + "</p>" + m
		})
	}
	return doc
}

func wrapFragment(doc, title, text string) string {
	titleTagHTML := "<title>Form</title>"
	if title != "" {
		titleTagHTML = "<title>" + EscapeHTML(title) + "</title>"
	}
	textBlock := ""
	if text != "" {
		textBlock = "<p>" + EscapeHTML(text) + "</p>"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    %s
    <style>
        body {
            font-family: system-ui, -apple-system, sans-serif;
            max-width: 600px;
            margin: 40px auto;
            padding: 20px;
            line-height: 1.6;
        }
        form {
            background: #f5f5f5;
            padding: 20px;
            border-radius: 8px;
        }
        input, textarea, select {
            width: 100%%;
            padding: 8px;
            margin: 8px 0;
            border: 1px solid #ddd;
            border-radius: 4px;
            box-sizing: border-box;
        }
        button, input[type="submit"] {
            background: #007bff;
            color: white;
            padding: 10px 20px;
            border: none;
            border-radius: 4px;
            cursor: pointer;
            margin-top: 10px;
        }
        button:hover, input[type="submit"]:hover {
            background: #0056b3;
        }
        label {
            display: block;
            margin-top: 10px;
            font-weight: 500;
        }
    </style>
</head>
<body>
    %s
    %s
</body>
</html>`, titleTagHTML, textBlock, doc)
}
