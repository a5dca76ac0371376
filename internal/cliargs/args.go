// Package cliargs parses and validates the readwebform command line into
// Args, the way cli.py's ReadWebFormArgumentParser does.
package cliargs

import (
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is the sentinel cause for any argument validation
// failure; the CLI layer maps it to exit code 7.
var ErrInvalidArgument = errors.New("invalid argument")

// Args holds the parsed, validated command-line input. Unlike RunConfig
// (internal/server), it keeps the raw, not-yet-resolved HTML source
// (--html / --htmlfile / --field) and output options, which the caller
// resolves into an HTML document and dispatches output with.
type Args struct {
	HTML     string
	HTMLFile string
	Fields   []string

	Title string
	Text  string

	Host         string
	Port         int
	CertFile     string
	KeyFile      string
	MaxFileSize  string
	MaxTotalSize string

	TimeoutSeconds      int
	ResetTimeoutOnError bool

	JSON     bool
	EnvFile  string
	PrintEnv bool

	LaunchBrowser    string
	LaunchBrowserSet bool

	NoSubmitButton bool
	NoCancelButton bool
	CancelLabel    string
	NoQR           bool
	Verbose        bool
	NoColor        bool
}

// Parse parses argv (excluding the program name) into Args and validates
// it, mirroring cli.py's parse_args + _validate_args. out receives usage
// text on --help or a parse error.
func Parse(argv []string, out io.Writer) (Args, error) {
	var a Args
	// Colors must be decided before fs.Usage can possibly fire (a bad
	// flag or --help triggers it mid-Parse), so scan argv directly
	// rather than waiting for the --no-color BoolVar below to be set.
	setColorsEnabled(wantsColor(argv))

	fs := flag.NewFlagSet("readwebform", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { printUsage(out) }

	fs.StringVar(&a.HTML, "html", "", "inline HTML fragment or document containing one <form> element")
	fs.StringVar(&a.HTMLFile, "htmlfile", "", "path to an HTML file containing a form")
	var fields stringSlice
	fs.Var(&fields, "field", "declaratively define a form field (name:type[:label][:options]); may repeat")

	fs.StringVar(&a.Title, "title", "", "page title shown above the form")
	fs.StringVar(&a.Text, "text", "", "instructional text shown above the form")

	fs.StringVar(&a.Host, "host", "127.0.0.1", "host/IP to bind to")
	fs.IntVar(&a.Port, "port", 0, "TCP port (0: auto-select free port)")
	fs.StringVar(&a.CertFile, "cert", "", "path to SSL certificate file (PEM) for HTTPS")
	fs.StringVar(&a.KeyFile, "key", "", "path to SSL private key file (PEM) for HTTPS")

	fs.StringVar(&a.MaxFileSize, "max-file-size", "", "maximum individual upload size (e.g. 5M, 200K)")
	fs.StringVar(&a.MaxTotalSize, "max-total-size", "", "maximum total upload size (e.g. 20M, 1G)")

	fs.IntVar(&a.TimeoutSeconds, "timeout", 300, "max time to wait for submission, in seconds")
	resetOnError := fs.String("reset-timeout-on-error", "true", "reset timeout on recoverable errors (true/false)")

	fs.BoolVar(&a.JSON, "json", true, "output result as JSON (default)")
	fs.StringVar(&a.EnvFile, "envfile", "", "write sanitized export statements to file")
	fs.BoolVar(&a.PrintEnv, "print-env", false, "print sanitized environment variable exports to stdout")

	launchBrowser := &optionalString{}
	fs.Var(launchBrowser, "launch-browser", "launch a web browser (system default if no path given)")

	fs.BoolVar(&a.NoSubmitButton, "no-submit-button", false, "disable the automatic submit button in declarative mode")
	fs.BoolVar(&a.NoCancelButton, "no-cancel-button", false, "disable the cancel button in declarative mode")
	fs.StringVar(&a.CancelLabel, "cancel-label", "Cancel", "label for the cancel button")
	fs.BoolVar(&a.NoQR, "no-qr", false, "skip printing the terminal QR code")
	fs.BoolVar(&a.Verbose, "v", false, "verbose logging")
	fs.BoolVar(&a.NoColor, "no-color", false, "disable ANSI colors in usage output")

	if err := fs.Parse(argv); err != nil {
		return Args{}, errors.Wrap(ErrInvalidArgument, err.Error())
	}

	a.Fields = fields
	a.LaunchBrowserSet = launchBrowser.set
	a.LaunchBrowser = launchBrowser.path()

	reset, err := strToBool(*resetOnError)
	if err != nil {
		return Args{}, errors.Wrapf(ErrInvalidArgument, "--reset-timeout-on-error: %v", err)
	}
	a.ResetTimeoutOnError = reset

	if err := validate(a); err != nil {
		return Args{}, err
	}
	return a, nil
}

func validate(a Args) error {
	sources := 0
	if a.HTML != "" {
		sources++
	}
	if a.HTMLFile != "" {
		sources++
	}
	if len(a.Fields) > 0 {
		sources++
	}
	if sources > 1 {
		return errors.Wrap(ErrInvalidArgument, "only one input source allowed: --html, --htmlfile, or --field")
	}

	if a.TimeoutSeconds <= 0 {
		return errors.Wrap(ErrInvalidArgument, "--timeout must be a positive integer")
	}
	if a.Port != 0 && (a.Port < 1 || a.Port > 65535) {
		return errors.Wrap(ErrInvalidArgument, "--port must be between 1 and 65535")
	}
	if a.CertFile != "" && a.KeyFile == "" {
		return errors.Wrap(ErrInvalidArgument, "--cert requires --key")
	}
	if a.KeyFile != "" && a.CertFile == "" {
		return errors.Wrap(ErrInvalidArgument, "--key requires --cert")
	}
	return nil
}

func strToBool(value string) (bool, error) {
	switch value {
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("boolean value expected, got: %s", value)
	}
}

// stringSlice implements flag.Value to support a repeatable --field flag.
type stringSlice []string

func (s *stringSlice) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// optionalString implements flag.Value plus the unexported IsBoolFlag
// hook the flag package looks for, letting --launch-browser appear bare
// (meaning "launch the system default") or with an explicit path via
// --launch-browser=/path/to/browser — argparse's nargs='?', const=''.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.set = true
	o.value = v
	return nil
}

func (o *optionalString) IsBoolFlag() bool { return true }

// path returns the browser executable path, or "" for the system default.
// Bare --launch-browser is delivered by the flag package as Set("true").
func (o *optionalString) path() string {
	if o.value == "true" {
		return ""
	}
	return o.value
}

// flagLine prints one "  --flag <arg>  description" row with the flag
// token colored the way the teacher colors its own flag rows in
// cmd/warp/main.go's usage().
func flagLine(out io.Writer, flag, rest string) {
	fmt.Fprintln(out, "  "+cYellow+flag+cReset+rest)
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, cBold+"readwebform"+cReset+cDim+" - gather structured user input through a temporary web form"+cReset)
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Usage:"+cReset)
	fmt.Fprintln(out, "  "+cGreen+"readwebform"+cReset+" --html '<form>...</form>' [flags]")
	fmt.Fprintln(out, "  "+cGreen+"readwebform"+cReset+" --htmlfile form.html [flags]")
	fmt.Fprintln(out, "  "+cGreen+"readwebform"+cReset+" --field name:text:Name --field email:email [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Input sources"+cReset+cDim+" (mutually exclusive)"+cReset+":")
	flagLine(out, "--html <string>", "        inline HTML fragment or document")
	flagLine(out, "--htmlfile <path>", "      path to an HTML file")
	flagLine(out, "--field <spec>", "         declarative field spec, may repeat")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Presentation:"+cReset)
	flagLine(out, "--title <string>", "       page title")
	flagLine(out, "--text <string>", "        instructional text")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Server:"+cReset)
	flagLine(out, "--host <ip>", "            bind address (default 127.0.0.1)")
	flagLine(out, "--port <int>", "           TCP port (default: auto-select)")
	flagLine(out, "--cert <path>", "          TLS certificate (requires --key)")
	flagLine(out, "--key <path>", "           TLS private key (requires --cert)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Upload limits:"+cReset)
	flagLine(out, "--max-file-size <lim>", "  e.g. 5M, 200K")
	flagLine(out, "--max-total-size <lim>", " e.g. 20M, 1G")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Timeout:"+cReset)
	flagLine(out, "--timeout <seconds>", "              default 300")
	flagLine(out, "--reset-timeout-on-error <bool>", "  default true")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Output:"+cReset)
	flagLine(out, "--json", "                 output result as JSON (default)")
	flagLine(out, "--envfile <path>", "       write export statements to file")
	flagLine(out, "--print-env", "            print export statements to stdout")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Browser:"+cReset)
	flagLine(out, "--launch-browser[=<path>]", "  open a browser (system default if no path)")
	flagLine(out, "--no-qr", "                    skip the terminal QR code")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Form generation:"+cReset)
	flagLine(out, "--no-submit-button", "     disable the automatic submit button")
	flagLine(out, "--no-cancel-button", "     disable the cancel button")
	flagLine(out, "--cancel-label <text>", "  default \"Cancel\"")
	fmt.Fprintln(out)
	fmt.Fprintln(out, cBold+"Display:"+cReset)
	flagLine(out, "-v", "                     verbose logging")
	flagLine(out, "--no-color", "             disable ANSI colors in this usage text"+cDim+" (honors NO_COLOR too)"+cReset)
}
