// Package browser opens a URL in the user's default browser or a
// caller-specified executable (spec.md §4.8).
package browser

import (
	"log"
	"os/exec"
	"runtime"
)

// Launch opens url. If executable is empty, it delegates to a
// platform-default open primitive ("open" on macOS, the Windows shell's
// URL protocol handler on Windows, xdg-open everywhere else). If executable is
// non-empty, it is spawned directly with url as its single argument —
// never through a shell, so a hostile executable string can't inject
// shell metacharacters (spec.md §4.8). Failure is logged and returns
// false; it is never fatal to the run.
func Launch(url, executable string) bool {
	var cmd *exec.Cmd
	if executable != "" {
		cmd = exec.Command(executable, url)
	} else {
		cmd = defaultBrowserCommand(url)
	}
	if cmd == nil {
		log.Printf("Warning: no default browser launcher known for %s", runtime.GOOS)
		return false
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Warning: failed to launch browser: %v", err)
		return false
	}
	return true
}

func defaultBrowserCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		// rundll32 avoids invoking cmd.exe's shell parsing of the URL.
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
