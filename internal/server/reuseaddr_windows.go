//go:build windows

package server

import "net"

// listenConfig returns a plain net.ListenConfig: SO_REUSEADDR on Windows
// permits a second process to silently steal a bound port, which is not
// a trade worth making just to skip TIME_WAIT on a CLI tool that binds
// once per run.
func listenConfig() net.ListenConfig {
	return net.ListenConfig{}
}
