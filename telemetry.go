package sender

import (
	"strconv"
)

// Version is reported in the client_version telemetry tag.
const Version = "1.0.0"

const telemetryPrefix = "datadog.dogstatsd.client."

// TelemetrySnapshot holds the client's pending self-telemetry: what has been
// counted since the last successful flush.
type TelemetrySnapshot struct {
	Metrics        uint64
	Events         uint64
	ServiceChecks  uint64
	BytesSent      uint64
	BytesDropped   uint64
	PacketsSent    uint64
	PacketsDropped uint64
}

type telemetry struct {
	TelemetrySnapshot
	enabled bool
	// rendered "|#client:go,..." suffix shared by every telemetry line
	tags string
}

func newTelemetry(enabled bool, transportKind string) *telemetry {
	return &telemetry{
		enabled: enabled,
		tags: serializeTags(Tags{
			{Key: "client", Value: "go"},
			{Key: "client_version", Value: Version},
			{Key: "client_transport", Value: transportKind},
		}, nil),
	}
}

// payload builds the datagram for message: the message, the telemetry lines
// when enabled, and a terminating newline. Counters are read before anything
// is appended so the telemetry never counts itself.
func (t *telemetry) payload(message string) []byte {
	size := len(message) + 1
	if t.enabled {
		size += 7 * (len(telemetryPrefix) + len(t.tags) + 32)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, message...)
	if t.enabled {
		buf = t.appendLine(buf, "metrics", t.Metrics)
		buf = t.appendLine(buf, "events", t.Events)
		buf = t.appendLine(buf, "service_checks", t.ServiceChecks)
		buf = t.appendLine(buf, "bytes_sent", t.BytesSent)
		buf = t.appendLine(buf, "bytes_dropped", t.BytesDropped)
		buf = t.appendLine(buf, "packets_sent", t.PacketsSent)
		buf = t.appendLine(buf, "packets_dropped", t.PacketsDropped)
	}
	return append(buf, '\n')
}

func (t *telemetry) appendLine(buf []byte, name string, value uint64) []byte {
	buf = append(buf, '\n')
	buf = append(buf, telemetryPrefix...)
	buf = append(buf, name...)
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, value, 10)
	buf = append(buf, "|c"...)
	return append(buf, t.tags...)
}

// sent resets every counter, then records the packet that just went out so
// the next flush reports it.
func (t *telemetry) sent(size int) {
	t.TelemetrySnapshot = TelemetrySnapshot{
		BytesSent:   uint64(size),
		PacketsSent: 1,
	}
}

// dropped keeps every counter and adds the lost packet.
func (t *telemetry) dropped(size int) {
	t.BytesDropped += uint64(size)
	t.PacketsDropped++
}
