package htmlform

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidFieldSpec is the sentinel cause for a malformed --field value
// or an unrecognised field type.
var ErrInvalidFieldSpec = errors.New("invalid field spec")

var validFieldTypes = map[string]bool{
	"text": true, "email": true, "password": true, "number": true,
	"date": true, "url": true, "textarea": true, "select": true,
	"checkbox": true, "file": true,
}

// FieldSpec is a parsed declarative field specification
// ("name:type[:label][:options]").
type FieldSpec struct {
	Name    string
	Type    string
	Label   string
	Options map[string]string
}

// ParseFieldSpec parses "name:type[:label][:options]" the way
// forms.py's FieldSpec.parse does: label is URL-unescaped (so it may
// contain spaces written as '+'), options is a comma-separated list of
// `key=value` or bare boolean flags, also URL-unescaped per-value.
func ParseFieldSpec(spec string) (FieldSpec, error) {
	parts := strings.SplitN(spec, ":", 4)
	if len(parts) < 2 {
		return FieldSpec{}, errors.Wrapf(ErrInvalidFieldSpec, "%q (expected name:type[:label][:options])", spec)
	}

	name := strings.TrimSpace(parts[0])
	fieldType := strings.TrimSpace(parts[1])
	if !validFieldTypes[fieldType] {
		return FieldSpec{}, errors.Wrapf(ErrInvalidFieldSpec, "%q: unknown field type %q", spec, fieldType)
	}

	label := name
	if len(parts) >= 3 && parts[2] != "" {
		if unescaped, err := url.QueryUnescape(parts[2]); err == nil {
			label = unescaped
		} else {
			label = parts[2]
		}
	}

	options := map[string]string{}
	if len(parts) >= 4 {
		options = parseFieldOptions(parts[3])
	}

	return FieldSpec{Name: name, Type: fieldType, Label: label, Options: options}, nil
}

func parseFieldOptions(raw string) map[string]string {
	options := map[string]string{}
	for _, opt := range strings.Split(raw, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if key, value, found := strings.Cut(opt, "="); found {
			if unescaped, err := url.QueryUnescape(strings.TrimSpace(value)); err == nil {
				options[strings.TrimSpace(key)] = unescaped
			} else {
				options[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		} else {
			options[opt] = "true"
		}
	}
	return options
}

// GenerateFormHTML renders a <form> element from field specs, the way
// forms.py's generate_form_html does: enctype is set to
// multipart/form-data automatically when any field is type "file", and a
// submit button and a cancel button are appended when addSubmit and
// addCancel are set.
func GenerateFormHTML(fields []FieldSpec, addSubmit, addCancel bool, cancelLabel string) string {
	hasFile := false
	for _, f := range fields {
		if f.Type == "file" {
			hasFile = true
			break
		}
	}

	var b strings.Builder
	if hasFile {
		b.WriteString(`<form method="POST" enctype="multipart/form-data">` + "\n")
	} else {
		b.WriteString(`<form method="POST">` + "\n")
	}

	for _, f := range fields {
		b.WriteString(generateFieldHTML(f))
		b.WriteString("\n")
	}

	if addSubmit {
		b.WriteString("    <button type=\"submit\">Submit</button>\n")
	}
	if addCancel {
		b.WriteString(`    <button type="submit" name="_cancel" value="1" class="cancel" formnovalidate>` +
			EscapeHTML(cancelLabel) + "</button>\n")
	}
	b.WriteString("</form>")
	return b.String()
}

func generateFieldHTML(f FieldSpec) string {
	label := `    <label for="` + EscapeAttr(f.Name) + `">` + EscapeHTML(f.Label) + "</label>"
	switch f.Type {
	case "textarea":
		return label + "\n" + generateTextarea(f)
	case "select":
		return label + "\n" + generateSelect(f)
	case "checkbox":
		return generateCheckbox(f)
	default:
		return label + "\n" + generateInput(f)
	}
}

func generateInput(f FieldSpec) string {
	attrs := orderedAttrs{}
	attrs.set("type", f.Type)
	attrs.set("name", f.Name)
	attrs.set("id", f.Name)
	for _, key := range []string{"placeholder", "min", "max", "step", "accept", "pattern"} {
		if v, ok := f.Options[key]; ok {
			attrs.set(key, v)
		}
	}
	if _, ok := f.Options["required"]; ok {
		attrs.setBool("required")
	}
	if f.Type == "file" {
		if _, ok := f.Options["multiple"]; ok {
			attrs.setBool("multiple")
		}
	}
	return "    " + buildTag("input", attrs, true)
}

func generateTextarea(f FieldSpec) string {
	attrs := orderedAttrs{}
	attrs.set("name", f.Name)
	attrs.set("id", f.Name)
	for _, key := range []string{"rows", "cols", "placeholder"} {
		if v, ok := f.Options[key]; ok {
			attrs.set(key, v)
		}
	}
	if _, ok := f.Options["required"]; ok {
		attrs.setBool("required")
	}
	return "    " + buildTag("textarea", attrs, false) + "</textarea>"
}

func generateSelect(f FieldSpec) string {
	attrs := orderedAttrs{}
	attrs.set("name", f.Name)
	attrs.set("id", f.Name)
	if _, ok := f.Options["required"]; ok {
		attrs.setBool("required")
	}
	if _, ok := f.Options["multiple"]; ok {
		attrs.setBool("multiple")
	}

	var b strings.Builder
	b.WriteString("    " + buildTag("select", attrs, false) + "\n")
	if opts, ok := f.Options["options"]; ok {
		for _, opt := range strings.Split(opts, "|") {
			opt = strings.TrimSpace(opt)
			b.WriteString(`        <option value="` + EscapeAttr(opt) + `">` + EscapeHTML(opt) + "</option>\n")
		}
	}
	b.WriteString("    </select>")
	return b.String()
}

func generateCheckbox(f FieldSpec) string {
	attrs := orderedAttrs{}
	attrs.set("type", "checkbox")
	attrs.set("name", f.Name)
	attrs.set("id", f.Name)
	value := "on"
	if v, ok := f.Options["value"]; ok {
		value = v
	}
	attrs.set("value", value)
	if _, ok := f.Options["required"]; ok {
		attrs.setBool("required")
	}
	checkbox := "    " + buildTag("input", attrs, true)
	label := ` <label for="` + EscapeAttr(f.Name) + `">` + EscapeHTML(f.Label) + "</label>"
	return checkbox + label
}

// orderedAttrs preserves attribute insertion order, matching the
// deterministic rendering forms.py's dict-based attrs produces under
// CPython's insertion-ordered dicts.
type orderedAttrs struct {
	keys []string
	vals map[string]*string // nil value = boolean attribute
}

func (a *orderedAttrs) set(key, value string) {
	if a.vals == nil {
		a.vals = map[string]*string{}
	}
	if _, exists := a.vals[key]; !exists {
		a.keys = append(a.keys, key)
	}
	v := value
	a.vals[key] = &v
}

func (a *orderedAttrs) setBool(key string) {
	if a.vals == nil {
		a.vals = map[string]*string{}
	}
	if _, exists := a.vals[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.vals[key] = nil
}

func buildTag(tag string, attrs orderedAttrs, selfClosing bool) string {
	var parts []string
	for _, key := range attrs.keys {
		v := attrs.vals[key]
		if v == nil {
			parts = append(parts, key)
		} else {
			parts = append(parts, key+`="`+EscapeAttr(*v)+`"`)
		}
	}
	attrStr := ""
	if len(parts) > 0 {
		attrStr = " " + strings.Join(parts, " ")
	}
	_ = selfClosing // HTML5 void elements don't need a trailing slash either way
	return "<" + tag + attrStr + ">"
}
