package sender

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"os"
	"syscall"
	"testing"
	"time"
)

func newSpyTransport(spy *socketSpy, maxAttempts int, onError ErrorListener) *transport {
	config := spyConfig(spy)
	config.MaxAttemptsToSend = maxAttempts
	config.ErrorListener = onError
	config, _ = config.withDefaults()
	return newTransport(config)
}

func TestTransportSingleAttemptOnTransientError(t *testing.T) {
	spy := &socketSpy{writeErr: transientError()}
	var reported []error
	tr := newSpyTransport(spy, 1, func(err error) { reported = append(reported, err) })

	assert.False(t, tr.send([]byte("g:1|g\n")))
	assert.Len(t, spy.dials, 1, "exactly one attempt")
	assert.Equal(t, 1, spy.closes, "socket is dropped after a transient error")
	require.Len(t, reported, 1)
	assert.True(t, errors.Is(reported[0], syscall.ECONNREFUSED))
}

func TestTransportRetriesTransientErrors(t *testing.T) {
	spy := &socketSpy{writeErr: transientError()}
	tr := newSpyTransport(spy, 3, nil)

	assert.False(t, tr.send([]byte("g:1|g\n")))
	assert.Len(t, spy.dials, 3)
	assert.Equal(t, 3, spy.closes)
}

func TestTransportRecoversOnRetry(t *testing.T) {
	spy := &socketSpy{}
	failures := 1
	dial := spy.dial
	tr := newSpyTransport(spy, 2, nil)
	tr.dial = func(network, address string) (net.Conn, error) {
		if failures > 0 {
			failures--
			spy.writeErr = transientError()
		} else {
			spy.writeErr = nil
		}
		return dial(network, address)
	}

	assert.True(t, tr.send([]byte("g:1|g\n")))
	assert.Len(t, spy.dials, 2)
	assert.Equal(t, []string{"g:1|g\n"}, spy.writes)
}

func TestTransportDoesNotRetryOtherErrors(t *testing.T) {
	spy := &socketSpy{writeErr: &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EMSGSIZE)}}
	tr := newSpyTransport(spy, 5, nil)

	assert.False(t, tr.send([]byte("too big")))
	assert.Len(t, spy.dials, 1)
	assert.Equal(t, 0, spy.closes, "socket is kept")
}

func TestTransportDialFailure(t *testing.T) {
	spy := &socketSpy{dialErr: transientError()}
	var reported []error
	tr := newSpyTransport(spy, 5, func(err error) { reported = append(reported, err) })

	assert.False(t, tr.send([]byte("g:1|g\n")))
	assert.False(t, tr.send([]byte("g:1|g\n")))
	assert.Len(t, spy.dials, 2, "no retry without a socket, but every send tries to create one")
	assert.Len(t, reported, 2)
	assert.NoError(t, tr.close())
}

func TestClientFailureIsAccounted(t *testing.T) {
	spy := &socketSpy{writeErr: transientError()}
	client := newSpyClient(t, spy, nil)

	client.Gauge("g", 1, 1, nil)

	assert.Len(t, spy.dials, 1)
	assert.Equal(t, TelemetrySnapshot{Metrics: 1, BytesDropped: 6, PacketsDropped: 1}, client.Telemetry())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(transientError()))
	assert.True(t, isTransient(syscall.ECONNRESET))
	assert.True(t, isTransient(syscall.ENETUNREACH))
	assert.False(t, isTransient(syscall.EMSGSIZE))
	assert.False(t, isTransient(errors.New("plain")))
	assert.False(t, isTransient(nil))
}

func TestTransportRealUDP(t *testing.T) {
	listener, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	config := DefaultConfig()
	addr := listener.LocalAddr().(*net.UDPAddr)
	config.Host = addr.IP.String()
	config.Port = addr.Port
	config, err = config.withDefaults()
	require.NoError(t, err)
	tr := newTransport(config)
	defer tr.close()

	require.True(t, tr.send([]byte("g:1|g\n")))

	require.NoError(t, listener.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, 1024)
	n, _, err := listener.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "g:1|g\n", string(buf[:n]))
}
