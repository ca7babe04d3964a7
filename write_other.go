//go:build !unix

package sender

import (
	"io"
	"net"
)

func writeNonBlocking(conn net.Conn, p []byte) error {
	n, err := conn.Write(p)
	if err == nil && n < len(p) {
		return io.ErrShortWrite
	}
	return err
}
