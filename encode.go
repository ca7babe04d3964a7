package sender

import (
	"fmt"
	protocol "github.com/influxdata/line-protocol"
	"github.com/spf13/cast"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	counterSuffix      = "c"
	gaugeSuffix        = "g"
	histogramSuffix    = "h"
	distributionSuffix = "d"
	timingSuffix       = "ms"
	setSuffix          = "s"
)

type ServiceCheckStatus int

const (
	OK ServiceCheckStatus = iota
	Warning
	Critical
	Unknown
)

func (s ServiceCheckStatus) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	case Unknown:
		return "UNKNOWN"
	}
	return strconv.Itoa(int(s))
}

// ServiceCheck is a service status report. Zero Timestamp, Hostname and
// Message are left out of the line.
type ServiceCheck struct {
	Name      string
	Status    ServiceCheckStatus
	Timestamp time.Time
	Hostname  string
	Message   string
	Tags      Tags
}

type EventPriority string

const (
	PriorityNormal EventPriority = "normal"
	PriorityLow    EventPriority = "low"
)

type EventAlertType string

const (
	AlertError   EventAlertType = "error"
	AlertWarning EventAlertType = "warning"
	AlertInfo    EventAlertType = "info"
	AlertSuccess EventAlertType = "success"
)

// Event is posted to the agent's event stream. Only Title is required.
type Event struct {
	Title          string
	Text           string
	DateHappened   time.Time
	Hostname       string
	AggregationKey string
	Priority       EventPriority
	SourceTypeName string
	AlertType      EventAlertType
	Tags           Tags
}

func (c *clientImpl) Timing(stat string, ms float64, sampleRate float64, tags Tags) {
	c.sendStats([]string{stat}, NormalizeValue(ms, c.precision), timingSuffix, sampleRate, tags)
}

func (c *clientImpl) Microtiming(stat string, seconds float64, sampleRate float64, tags Tags) {
	c.Timing(stat, seconds*1000, sampleRate, tags)
}

func (c *clientImpl) TimeSince(stat string, start time.Time, sampleRate float64, tags Tags) {
	c.Timing(stat, float64(time.Since(start))/float64(time.Millisecond), sampleRate, tags)
}

func (c *clientImpl) Gauge(stat string, value float64, sampleRate float64, tags Tags) {
	c.sendStats([]string{stat}, NormalizeValue(value, c.precision), gaugeSuffix, sampleRate, tags)
}

func (c *clientImpl) Histogram(stat string, value float64, sampleRate float64, tags Tags) {
	c.sendStats([]string{stat}, NormalizeValue(value, c.precision), histogramSuffix, sampleRate, tags)
}

func (c *clientImpl) Distribution(stat string, value float64, sampleRate float64, tags Tags) {
	c.sendStats([]string{stat}, NormalizeValue(value, c.precision), distributionSuffix, sampleRate, tags)
}

func (c *clientImpl) Set(stat string, value interface{}, sampleRate float64, tags Tags) {
	s, ok := value.(string)
	if !ok {
		var err error
		s, err = normalizeAny(value, c.precision)
		if err != nil {
			c.reportError(fmt.Errorf("set %s: %w", stat, err))
			return
		}
	}
	c.sendStats([]string{stat}, s, setSuffix, sampleRate, tags)
}

func (c *clientImpl) Increment(stat string, sampleRate float64, tags Tags) {
	c.UpdateStats([]string{stat}, 1, sampleRate, tags)
}

func (c *clientImpl) Decrement(stat string, sampleRate float64, tags Tags) {
	c.UpdateStats([]string{stat}, -1, sampleRate, tags)
}

func (c *clientImpl) IncrementBy(stats []string, value int64, sampleRate float64, tags Tags) {
	c.UpdateStats(stats, value, sampleRate, tags)
}

func (c *clientImpl) DecrementBy(stats []string, value int64, sampleRate float64, tags Tags) {
	if value > 0 {
		value = -value
	}
	c.UpdateStats(stats, value, sampleRate, tags)
}

func (c *clientImpl) UpdateStats(stats []string, delta int64, sampleRate float64, tags Tags) {
	c.sendStats(stats, strconv.FormatInt(delta, 10), counterSuffix, sampleRate, tags)
}

// sendStats renders one line per stat, samples each line independently and
// reports the survivors. A call counts once in telemetry, and only if at
// least one line survives.
func (c *clientImpl) sendStats(stats []string, value, suffix string, sampleRate float64, tags Tags) {
	rate := NormalizeValue(sampleRate, c.precision)
	rateValue, _ := strconv.ParseFloat(rate, 64)
	if rateValue <= 0 && sampleRate > 0 {
		// smallest rate the precision can carry on the wire
		rateValue = math.Pow10(-c.precision)
		rate = NormalizeValue(rateValue, c.precision)
	}
	sampled := rateValue < 1
	tagSuffix := serializeTags(c.globalTags, tags)

	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]string, 0, len(stats))
	for _, stat := range stats {
		if sampled && c.rand() > rateValue {
			continue
		}
		var b strings.Builder
		b.WriteString(c.prefix)
		b.WriteString(stat)
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteByte('|')
		b.WriteString(suffix)
		if sampled {
			b.WriteString("|@")
			b.WriteString(rate)
		}
		b.WriteString(tagSuffix)
		lines = append(lines, b.String())
	}
	if len(lines) == 0 {
		return
	}

	c.telemetry.Metrics++
	for _, line := range lines {
		c.dispatch.report(line)
	}
}

func (c *clientImpl) ServiceCheck(sc ServiceCheck) {
	line := c.encodeServiceCheck(sc)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.telemetry.ServiceChecks++
	c.dispatch.report(line)
}

func (c *clientImpl) encodeServiceCheck(sc ServiceCheck) string {
	var b strings.Builder
	b.WriteString("_sc|")
	b.WriteString(sc.Name)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(sc.Status)))
	if !sc.Timestamp.IsZero() {
		b.WriteString("|d:")
		b.WriteString(strconv.FormatInt(sc.Timestamp.Unix(), 10))
	}
	if sc.Hostname != "" {
		b.WriteString("|h:")
		b.WriteString(sc.Hostname)
	}
	b.WriteString(serializeTags(c.globalTags, sc.Tags))
	if sc.Message != "" {
		b.WriteString("|m:")
		b.WriteString(escapeServiceCheckMessage(sc.Message))
	}
	return b.String()
}

var serviceCheckMessageEscaper = strings.NewReplacer("\n", `\n`, "m:", `m\:`)

func escapeServiceCheckMessage(msg string) string {
	return serviceCheckMessageEscaper.Replace(msg)
}

func (c *clientImpl) Event(e Event) {
	line := c.encodeEvent(e)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.telemetry.Events++
	c.dispatch.report(line)
}

func (c *clientImpl) encodeEvent(e Event) string {
	title := escapeEventText(e.Title)
	text := escapeEventText(e.Text)

	var b strings.Builder
	b.WriteString("_e{")
	b.WriteString(strconv.Itoa(len(title)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(len(text)))
	b.WriteString("}:")
	b.WriteString(title)
	b.WriteByte('|')
	b.WriteString(text)
	if !e.DateHappened.IsZero() {
		b.WriteString("|d:")
		b.WriteString(strconv.FormatInt(e.DateHappened.Unix(), 10))
	}
	writeField(&b, "|h:", e.Hostname)
	writeField(&b, "|k:", e.AggregationKey)
	writeField(&b, "|p:", string(e.Priority))
	writeField(&b, "|s:", e.SourceTypeName)
	writeField(&b, "|t:", string(e.AlertType))
	b.WriteString(serializeTags(c.globalTags, e.Tags))
	return b.String()
}

func escapeEventText(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key)
	b.WriteString(value)
}

func (c *clientImpl) Send(m protocol.Metric) {
	var tags Tags
	for _, tag := range m.TagList() {
		tags = append(tags, Tag{Key: tag.Key, Value: tag.Value})
	}
	for _, field := range m.FieldList() {
		value, err := cast.ToFloat64E(field.Value)
		if err != nil {
			c.reportError(fmt.Errorf("field %s of %s is not numeric: %w", field.Key, m.Name(), err))
			continue
		}
		c.Gauge(m.Name()+"."+field.Key, value, 1, tags)
	}
}
