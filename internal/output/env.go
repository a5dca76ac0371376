package output

import (
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/webform-cli/readwebform/internal/formdata"
)

// ErrWriteEnvFile is the sentinel cause for a failed env-file write.
var ErrWriteEnvFile = errors.New("write env file")

var validVarName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const envDisclaimer = "# WARNING: Environment files are for trusted local use only.\n" +
	"# Do not source envfiles generated from untrusted form data.\n"

// FormatEnv renders fields as POSIX shell "export NAME=value" statements
// prefixed with prefix and upper-cased, the way output.py's
// format_env_output does. Field names that don't produce a valid shell
// variable name are skipped and returned in skipped so the caller can
// warn about them (core.py prints this warning to stderr).
func FormatEnv(form *formdata.FormData, prefix string) (content string, skipped []string) {
	var lines []string

	if form != nil {
		for _, name := range form.FieldOrder() {
			v, ok := form.Field(name)
			if !ok {
				continue
			}
			varName := prefix + strings.ToUpper(name)
			if !validVarName.MatchString(varName) {
				skipped = append(skipped, name)
				continue
			}
			lines = append(lines, "export "+varName+"="+shellQuote(sanitizeEnvValue(v.String())))
		}
	}

	return envDisclaimer + strings.Join(lines, "\n"), skipped
}

// sanitizeEnvValue collapses newlines to a literal "\n", drops carriage
// returns, and strips control characters other than tab, matching
// output.py's sanitize_env_value.
func sanitizeEnvValue(value string) string {
	value = strings.ReplaceAll(value, "\n", `\n`)
	value = strings.ReplaceAll(value, "\r", "")

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r == '\t' || !(r < 32 || r == 127) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// shellQuote reproduces Python's shlex.quote: the empty string becomes
// '', a string containing only shell-safe characters is returned
// unquoted, and anything else is single-quoted with embedded single
// quotes escaped as '"'"'.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// WriteEnvFile writes fields to filepath as env-file content.
func WriteEnvFile(filepath string, form *formdata.FormData, prefix string) ([]string, error) {
	content, skipped := FormatEnv(form, prefix)
	if err := os.WriteFile(filepath, []byte(content), 0o644); err != nil {
		return skipped, errors.Wrapf(ErrWriteEnvFile, "%s: %v", filepath, err)
	}
	return skipped, nil
}
