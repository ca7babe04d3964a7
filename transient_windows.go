package sender

import (
	"errors"
	"syscall"
)

// Winsock codes; not all of them are exported by syscall or x/sys/windows.
const (
	wsaeConnAborted = syscall.Errno(10053)
	wsaeConnReset   = syscall.Errno(10054)
	wsaeShutdown    = syscall.Errno(10058)
	wsaeTimedOut    = syscall.Errno(10060)
	wsaeConnRefused = syscall.Errno(10061)
)

func isTransient(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case wsaeConnAborted, wsaeConnReset, wsaeShutdown, wsaeTimedOut, wsaeConnRefused:
		return true
	}
	return false
}
