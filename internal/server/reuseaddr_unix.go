//go:build !windows

package server

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// listenConfig returns a net.ListenConfig that sets SO_REUSEADDR on the
// listening socket before bind, mirroring ReusableTCPServer's
// allow_reuse_address in the original implementation — a rerun right
// after a crash shouldn't have to wait out TIME_WAIT.
func listenConfig() net.ListenConfig {
	return net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
}
