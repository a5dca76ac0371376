// Command readwebform gathers structured user input through a temporary
// web form: it generates or accepts an HTML fragment, serves it from a
// single-use local HTTP(S) server, waits for one valid submission or a
// timeout, and prints the result as JSON or shell environment exports.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/webform-cli/readwebform/internal/browser"
	"github.com/webform-cli/readwebform/internal/cliargs"
	"github.com/webform-cli/readwebform/internal/htmlform"
	"github.com/webform-cli/readwebform/internal/output"
	"github.com/webform-cli/readwebform/internal/qr"
	"github.com/webform-cli/readwebform/internal/server"
	"github.com/webform-cli/readwebform/internal/sizelimit"
	"github.com/webform-cli/readwebform/internal/tokenmint"
)

const (
	exitSuccess            = 0
	exitInternalError      = 1
	exitInvalidHTML        = 2
	exitReadError          = 3
	exitBrowserLaunchError = 4
	exitTimeout            = 5
	exitUploadSizeExceeded = 6
	exitInvalidArgument    = 7
)

func main() {
	log.SetFlags(0)
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := cliargs.Parse(argv, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitInvalidArgument
	}

	doc, ok := loadHTML(args)
	if !ok {
		return exitReadError
	}

	doc = htmlform.Wrap(doc, args.Title, args.Text)

	warnNoSubmit := !(len(args.Fields) > 0 && !args.NoSubmitButton)
	result, err := htmlform.Validate(doc)
	if err != nil || result.FormCount != 1 {
		fmt.Fprintf(os.Stderr, "Error: document must contain exactly one <form> element\n")
		return exitInvalidHTML
	}
	if warnNoSubmit && !result.HasSubmitButton {
		fmt.Fprintln(os.Stderr, "Warning: form has no visible submit control")
	}
	if htmlform.IsExternalURL(result.FormAction) {
		fmt.Fprintln(os.Stderr, "Error: form action must not point to an external URL")
		return exitInvalidHTML
	}

	maxFileSize, ok := parseSizeArg("--max-file-size", args.MaxFileSize)
	if !ok {
		return exitInvalidArgument
	}
	maxTotalSize, ok := parseSizeArg("--max-total-size", args.MaxTotalSize)
	if !ok {
		return exitInvalidArgument
	}

	if args.Host == "0.0.0.0" || args.Host == "::" {
		fmt.Fprintln(os.Stderr, "Warning: binding to all interfaces. Form will be accessible from other machines.")
		fmt.Fprintln(os.Stderr, "         Consider using --host 127.0.0.1 for local-only access.")
	}

	cfg := server.RunConfig{
		Host:                args.Host,
		Port:                args.Port,
		CertFile:            args.CertFile,
		KeyFile:             args.KeyFile,
		MaxFileSize:         maxFileSize,
		MaxTotalSize:        maxTotalSize,
		TimeoutSeconds:      args.TimeoutSeconds,
		ResetTimeoutOnError: args.ResetTimeoutOnError,
		Verbose:             args.Verbose,
	}

	browserLaunchFailed := false
	onReady := func(url string) {
		if !args.NoQR {
			if err := qr.Print(os.Stdout, url); err != nil {
				log.Printf("qr: %v", err)
			}
		}
		if args.LaunchBrowserSet {
			if !browser.Launch(url, args.LaunchBrowser) {
				browserLaunchFailed = true
			}
		}
	}

	html, err := injectRunContext(doc, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Internal error: %v\n", err)
		return exitInternalError
	}
	cfg.HTML = html

	outcome, err := server.Serve(cfg, onReady)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Internal error: %v\n", err)
		return exitInternalError
	}

	if browserLaunchFailed {
		fmt.Fprintln(os.Stderr, "Error: failed to launch browser")
		return exitBrowserLaunchError
	}

	if !outcome.Success {
		if !args.PrintEnv {
			env := output.BuildEnvelope(nil, nil, false, "timeout")
			text, _ := output.FormatJSON(env)
			fmt.Println(text)
		}
		fmt.Fprintln(os.Stderr, "Error: Timeout waiting for submission")
		return exitTimeout
	}

	return emitOutput(args, outcome)
}

// injectRunContext mints the CSRF token and endpoint path, splices them
// into doc's form, and records them on cfg so server.Serve checks
// submissions against the exact values the served document carries
// (spec.md §6, "Stored HTML contract").
func injectRunContext(doc string, cfg *server.RunConfig) (string, error) {
	csrfToken, err := tokenmint.CSRFToken()
	if err != nil {
		return "", err
	}
	endpointPath, err := tokenmint.EndpointPath()
	if err != nil {
		return "", err
	}
	cfg.CSRFToken = csrfToken
	cfg.EndpointPath = endpointPath
	return htmlform.InjectCSRF(doc, csrfToken, endpointPath), nil
}

func emitOutput(args cliargs.Args, outcome server.Outcome) int {
	if args.PrintEnv {
		text, skipped := output.FormatEnv(outcome.Form, "WEBFORM_")
		if len(skipped) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: Skipped invalid variable names: %s\n", joinNames(skipped))
		}
		fmt.Println(text)
		return exitSuccess
	}

	if args.EnvFile != "" {
		skipped, err := output.WriteEnvFile(args.EnvFile, outcome.Form, "WEBFORM_")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitInternalError
		}
		if len(skipped) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: Skipped invalid variable names: %s\n", joinNames(skipped))
		}
	}

	env := output.BuildEnvelope(outcome.Form, outcome.Files, true, "")
	text, err := output.FormatJSON(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Internal error: %v\n", err)
		return exitInternalError
	}
	fmt.Println(text)
	return exitSuccess
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func parseSizeArg(flag, raw string) (int64, bool) {
	bytes, _, err := sizelimit.Parse(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid %s: %v\n", flag, err)
		fmt.Fprintln(os.Stderr, "       Use format like: 5M, 200K, 1G, or plain bytes")
		return 0, false
	}
	return bytes, true
}

// loadHTML resolves the HTML source in priority order: --html,
// --htmlfile, --field, then stdin (core.py's load_html).
func loadHTML(args cliargs.Args) (string, bool) {
	if args.HTML != "" {
		return args.HTML, true
	}
	if args.HTMLFile != "" {
		data, err := os.ReadFile(args.HTMLFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return "", false
		}
		return string(data), true
	}
	if len(args.Fields) > 0 {
		return generateFromFields(args)
	}
	return readStdin()
}

func generateFromFields(args cliargs.Args) (string, bool) {
	specs := make([]htmlform.FieldSpec, 0, len(args.Fields))
	for _, raw := range args.Fields {
		spec, err := htmlform.ParseFieldSpec(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return "", false
		}
		specs = append(specs, spec)
	}
	html := htmlform.GenerateFormHTML(specs, !args.NoSubmitButton, !args.NoCancelButton, args.CancelLabel)
	return html, true
}

func readStdin() (string, bool) {
	if isTerminal(os.Stdin) {
		fmt.Fprintln(os.Stderr, "Reading HTML from stdin (press Ctrl+D when done)...")
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return "", false
	}
	return string(data), true
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
