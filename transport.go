package sender

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"net"
)

// transport owns at most one datagram socket. The socket is created on the
// first send and dropped whenever a write fails with a transient error, so
// the next attempt dials a fresh one.
type transport struct {
	network     string
	address     string
	dial        Dialer
	maxAttempts int
	conn        net.Conn
	log         logrus.FieldLogger
	onError     ErrorListener
}

func newTransport(config Config) *transport {
	network, address := config.network()
	return &transport{
		network:     network,
		address:     address,
		dial:        config.Dialer,
		maxAttempts: config.MaxAttemptsToSend,
		log: config.Logger.WithFields(logrus.Fields{
			"transport": config.transportKind(),
			"address":   address,
		}),
		onError: config.ErrorListener,
	}
}

// send writes payload as one datagram and reports whether it was accepted by
// the local socket.
func (t *transport) send(payload []byte) bool {
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		conn, err := t.socket()
		if err != nil {
			t.log.WithError(err).Warn("failed to create socket")
			t.reportError(fmt.Errorf("failed to create %s socket: %w", t.network, err))
			return false
		}

		err = writeNonBlocking(conn, payload)
		if err == nil {
			return true
		}

		t.log.WithError(err).WithFields(logrus.Fields{
			"bytes":   len(payload),
			"attempt": attempt,
		}).Debug("failed to send payload")
		t.reportError(fmt.Errorf("failed to send: %w", err))

		if !isTransient(err) {
			return false
		}
		t.close()
	}
	return false
}

func (t *transport) socket() (net.Conn, error) {
	if t.conn != nil {
		return t.conn, nil
	}
	conn, err := t.dial(t.network, t.address)
	if err != nil {
		return nil, err
	}
	t.conn = conn
	return conn, nil
}

// close releases the socket if there is one. It is safe to call repeatedly.
func (t *transport) close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close: %w", err)
	}
	return nil
}

func (t *transport) reportError(err error) {
	if t.onError != nil {
		t.onError(err)
	}
}
