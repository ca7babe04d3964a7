package sender

import (
	protocol "github.com/influxdata/line-protocol"
	"sync"
	"time"
)

// Client emits metrics, events and service checks to a DogStatsD agent.
// Every method is safe for concurrent use and returns without waiting on the
// agent; delivery failures only show up in Telemetry and the ErrorListener.
//
// Sample rates are rounded to Config.DecimalPrecision digits before use. A
// positive rate that would round to 0 is raised to the smallest rate the
// precision can express, 0.01 at the default precision of 2.
type Client interface {
	// Timing sends a timing in milliseconds.
	Timing(stat string, ms float64, sampleRate float64, tags Tags)
	// Microtiming sends a timing given in seconds.
	Microtiming(stat string, seconds float64, sampleRate float64, tags Tags)
	// TimeSince sends the time elapsed since start as a timing.
	TimeSince(stat string, start time.Time, sampleRate float64, tags Tags)
	Gauge(stat string, value float64, sampleRate float64, tags Tags)
	Histogram(stat string, value float64, sampleRate float64, tags Tags)
	Distribution(stat string, value float64, sampleRate float64, tags Tags)
	// Set counts unique occurrences of value. Strings are sent unchanged,
	// anything else is normalized as a number.
	Set(stat string, value interface{}, sampleRate float64, tags Tags)

	Increment(stat string, sampleRate float64, tags Tags)
	Decrement(stat string, sampleRate float64, tags Tags)
	IncrementBy(stats []string, value int64, sampleRate float64, tags Tags)
	// DecrementBy decrements by the magnitude of value.
	DecrementBy(stats []string, value int64, sampleRate float64, tags Tags)
	// UpdateStats adds delta to each of stats.
	UpdateStats(stats []string, delta int64, sampleRate float64, tags Tags)

	ServiceCheck(sc ServiceCheck)
	Event(e Event)

	// Send forwards every numeric field of an Influx line protocol metric as
	// a gauge named "<metric>.<field>", tagged with the metric's tags.
	Send(m protocol.Metric)
	// Report hands an already encoded protocol line to the client.
	Report(line string)

	// Flush delivers any buffered lines.
	Flush()
	Telemetry() TelemetrySnapshot
	// Close flushes buffered lines and releases the socket.
	Close() error
}

// NewClient creates a client that sends every line as its own datagram.
func NewClient(config Config) (Client, error) {
	c, err := newClient(config, false)
	if err != nil {
		return nil, err
	}
	c.dispatch = immediate{sink: c.flush}
	return c, nil
}

type clientImpl struct {
	mu         sync.Mutex
	prefix     string
	precision  int
	globalTags Tags
	rand       func() float64
	onError    ErrorListener

	dispatch  dispatcher
	telemetry *telemetry
	transport *transport
}

func newClient(config Config, telemetryByDefault bool) (*clientImpl, error) {
	config, err := config.withDefaults()
	if err != nil {
		return nil, err
	}
	telemetryEnabled := telemetryByDefault
	if config.Telemetry != nil {
		telemetryEnabled = *config.Telemetry
	}
	c := &clientImpl{
		precision:  *config.DecimalPrecision,
		globalTags: config.GlobalTags,
		rand:       config.Rand,
		onError:    config.ErrorListener,
		telemetry:  newTelemetry(telemetryEnabled, config.transportKind()),
		transport:  newTransport(config),
	}
	if config.MetricPrefix != "" {
		c.prefix = config.MetricPrefix + "."
	}
	return c, nil
}

func (c *clientImpl) Report(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch.report(line)
}

func (c *clientImpl) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch.flush()
}

func (c *clientImpl) Telemetry() TelemetrySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.telemetry.TelemetrySnapshot
}

func (c *clientImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatch.flush()
	return c.transport.close()
}

// flush sends message, plus telemetry, as one datagram. Callers hold c.mu.
func (c *clientImpl) flush(message string) {
	payload := c.telemetry.payload(message)
	if c.transport.send(payload) {
		c.telemetry.sent(len(payload))
	} else {
		c.telemetry.dropped(len(payload))
	}
}

func (c *clientImpl) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}
