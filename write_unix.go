//go:build unix

package sender

import (
	"golang.org/x/sys/unix"
	"io"
	"net"
	"os"
	"syscall"
)

// writeNonBlocking writes p straight to the socket's file descriptor and
// never parks on the runtime poller: a full socket buffer comes back as
// EAGAIN instead of waiting for the agent to drain it.
func writeNonBlocking(conn net.Conn, p []byte) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		_, err := conn.Write(p)
		return err
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return err
	}

	var n int
	var werr error
	err = raw.Write(func(fd uintptr) bool {
		n, werr = unix.Write(int(fd), p)
		return true
	})
	if err != nil {
		return err
	}
	if werr != nil {
		return os.NewSyscallError("write", werr)
	}
	if n < len(p) {
		return io.ErrShortWrite
	}
	return nil
}
