package sender

import (
	protocol "github.com/influxdata/line-protocol"
	"time"
)

// SimpleMetric is a ready-to-use protocol.Metric for Client.Send, for callers
// that do not already carry Influx metrics around.
type SimpleMetric struct {
	name      string
	tags      []*protocol.Tag
	fields    []*protocol.Field
	timestamp time.Time
}

func NewSimpleMetric(name string) *SimpleMetric {
	return &SimpleMetric{name: name}
}

// WithTag adds a tag. The value is rendered the same way as a DogStatsD tag value.
func (m *SimpleMetric) WithTag(key string, value interface{}) *SimpleMetric {
	m.tags = append(m.tags, &protocol.Tag{Key: key, Value: formatTagValue(value)})
	return m
}

// WithTags adds every tag of tags, in order. Bare keys get an empty value.
func (m *SimpleMetric) WithTags(tags Tags) *SimpleMetric {
	for _, tag := range tags {
		value := ""
		if tag.Value != nil {
			value = formatTagValue(tag.Value)
		}
		m.tags = append(m.tags, &protocol.Tag{Key: tag.Key, Value: value})
	}
	return m
}

func (m *SimpleMetric) WithField(key string, value interface{}) *SimpleMetric {
	m.fields = append(m.fields, &protocol.Field{Key: key, Value: value})
	return m
}

func (m *SimpleMetric) At(t time.Time) *SimpleMetric {
	m.timestamp = t
	return m
}

func (m *SimpleMetric) Name() string {
	return m.name
}

func (m *SimpleMetric) TagList() []*protocol.Tag {
	return m.tags
}

func (m *SimpleMetric) FieldList() []*protocol.Field {
	return m.fields
}

// Time is never sent to the agent, DogStatsD stamps metrics on arrival.
func (m *SimpleMetric) Time() time.Time {
	if m.timestamp.IsZero() {
		return time.Now()
	}
	return m.timestamp
}
