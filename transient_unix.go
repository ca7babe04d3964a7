//go:build unix

package sender

import (
	"errors"
	"golang.org/x/sys/unix"
	"syscall"
)

var transientErrnos = map[syscall.Errno]struct{}{
	unix.ENETDOWN:     {},
	unix.ENETUNREACH:  {},
	unix.ENETRESET:    {},
	unix.ECONNABORTED: {},
	unix.ECONNRESET:   {},
	unix.ENOBUFS:      {},
	unix.ENOTCONN:     {},
	unix.ESHUTDOWN:    {},
	unix.ETIMEDOUT:    {},
	unix.ECONNREFUSED: {},
	unix.EHOSTDOWN:    {},
	unix.ECANCELED:    {},
}

// isTransient reports whether err carries an errno worth retrying on a fresh
// socket.
func isTransient(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	_, ok := transientErrnos[errno]
	return ok
}
