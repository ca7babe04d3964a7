package sender

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TelemetrySource is implemented by every Client.
type TelemetrySource interface {
	Telemetry() TelemetrySnapshot
}

// TelemetryCollector exposes a client's pending telemetry to Prometheus. The
// values are what the client will report on its next flush, so they are
// gauges: a successful flush brings them back down.
type TelemetryCollector struct {
	source TelemetrySource

	metrics        *prometheus.Desc
	events         *prometheus.Desc
	serviceChecks  *prometheus.Desc
	bytesSent      *prometheus.Desc
	bytesDropped   *prometheus.Desc
	packetsSent    *prometheus.Desc
	packetsDropped *prometheus.Desc
}

func NewTelemetryCollector(source TelemetrySource, constLabels prometheus.Labels) *TelemetryCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName("dogstatsd", "client", name),
			help, nil, constLabels,
		)
	}
	return &TelemetryCollector{
		source:         source,
		metrics:        desc("pending_metrics", "Metric calls not yet reported by telemetry."),
		events:         desc("pending_events", "Events not yet reported by telemetry."),
		serviceChecks:  desc("pending_service_checks", "Service checks not yet reported by telemetry."),
		bytesSent:      desc("pending_bytes_sent", "Bytes of the last sent datagram."),
		bytesDropped:   desc("pending_bytes_dropped", "Bytes dropped since the last successful send."),
		packetsSent:    desc("pending_packets_sent", "Datagrams sent since telemetry was last reported."),
		packetsDropped: desc("pending_packets_dropped", "Datagrams dropped since the last successful send."),
	}
}

func (c *TelemetryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.metrics
	ch <- c.events
	ch <- c.serviceChecks
	ch <- c.bytesSent
	ch <- c.bytesDropped
	ch <- c.packetsSent
	ch <- c.packetsDropped
}

func (c *TelemetryCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Telemetry()
	gauge := func(desc *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v))
	}
	gauge(c.metrics, s.Metrics)
	gauge(c.events, s.Events)
	gauge(c.serviceChecks, s.ServiceChecks)
	gauge(c.bytesSent, s.BytesSent)
	gauge(c.bytesDropped, s.BytesDropped)
	gauge(c.packetsSent, s.PacketsSent)
	gauge(c.packetsDropped, s.PacketsDropped)
}
