package cliargs

import "os"

// ANSI colors for readable help output, toggled via --no-color / NO_COLOR
// (same toggle and variable names as the teacher's own cmd/warp/main.go).
var (
	cReset   string
	cBold    string
	cDim     string
	cGreen   string
	cYellow  string
	cMagenta string
)

func setColorsEnabled(enabled bool) {
	if !enabled {
		cReset, cBold, cDim, cGreen, cYellow, cMagenta = "", "", "", "", "", ""
		return
	}
	cReset = "\033[0m"
	cBold = "\033[1m"
	cDim = "\033[2m"
	cGreen = "\033[32m"
	cYellow = "\033[33m"
	cMagenta = "\033[35m"
}

// wantsColor reports whether usage output should be colored: NO_COLOR
// disables it unconditionally, and --no-color (scanned directly since it
// must take effect before flag.FlagSet.Parse can print usage on a parse
// error) disables it regardless of where it appears in argv.
func wantsColor(argv []string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	for _, a := range argv {
		if a == "--no-color" {
			return false
		}
	}
	return true
}
