package sender

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
	"math/rand"
	"net"
	"os"
	"strconv"
)

const (
	DefaultHost              = "localhost"
	DefaultPort              = 8125
	DefaultMaxAttemptsToSend = 1
	DefaultDecimalPrecision  = 2
	DefaultMaxBufferLength   = 50
	DefaultDatadogHost       = "https://app.datadoghq.com"

	// EntityIDTag is added to the global tags by ConfigFromEnv when DD_ENTITY_ID is set.
	EntityIDTag = "dd.internal.entity_id"
)

// ErrorListener receives transport errors. Errors never reach the caller of
// a metric method; the listener is the only place they surface besides the
// dropped-packet telemetry. It may be called with the client locked and must not
// call back into the client.
type ErrorListener func(err error)

// Dialer creates the datagram socket. network is "udp" or "unixgram".
type Dialer func(network, address string) (net.Conn, error)

type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	SocketPath string `yaml:"socket_path"`
	// MaxAttemptsToSend is the total number of writes tried per payload when
	// the socket keeps failing with a transient error.
	MaxAttemptsToSend int `yaml:"max_attempts_to_send"`
	// DatadogHost is carried for API clients; the datagram path ignores it.
	DatadogHost string `yaml:"datadog_host"`
	// DecimalPrecision is the number of fractional digits sent for values
	// and sample rates. Nil means DefaultDecimalPrecision.
	DecimalPrecision *int `yaml:"decimal_precision"`
	// MetricPrefix is prepended, followed by '.', to every metric name.
	MetricPrefix string `yaml:"metric_prefix"`
	GlobalTags   Tags   `yaml:"global_tags"`
	// Telemetry switches the client telemetry lines on or off. Nil leaves
	// them off for NewClient and on for NewBatchedClient.
	Telemetry *bool `yaml:"telemetry"`
	// MaxBufferLength is the number of lines a batched client holds before
	// the next line triggers a flush.
	MaxBufferLength int `yaml:"max_buffer_length"`

	// Buffer, when set, is used by a batched client instead of a private one.
	// Pass the same Buffer to several clients to batch their lines together.
	Buffer *Buffer            `yaml:"-"`
	Dialer Dialer             `yaml:"-"`
	Rand   func() float64     `yaml:"-"`
	Logger logrus.FieldLogger `yaml:"-"`
	ErrorListener `yaml:"-"`
}

// DefaultConfig returns a Config with every documented default filled in.
func DefaultConfig() Config {
	return Config{
		Host:              DefaultHost,
		Port:              DefaultPort,
		MaxAttemptsToSend: DefaultMaxAttemptsToSend,
		DatadogHost:       DefaultDatadogHost,
		DecimalPrecision:  Int(DefaultDecimalPrecision),
		MaxBufferLength:   DefaultMaxBufferLength,
	}
}

// Int returns a pointer to n, for Config.DecimalPrecision.
func Int(n int) *int {
	return &n
}

// Bool returns a pointer to b, for Config.Telemetry.
func Bool(b bool) *bool {
	return &b
}

// ConfigFromEnv overrides config with DD_AGENT_HOST, DD_DOGSTATSD_PORT and
// DD_ENTITY_ID when they are set.
func ConfigFromEnv(config Config) (Config, error) {
	if host := os.Getenv("DD_AGENT_HOST"); host != "" {
		config.Host = host
	}
	if port := os.Getenv("DD_DOGSTATSD_PORT"); port != "" {
		p, err := cast.ToIntE(port)
		if err != nil {
			return config, fmt.Errorf("invalid DD_DOGSTATSD_PORT: %w", err)
		}
		config.Port = p
	}
	if entityID := os.Getenv("DD_ENTITY_ID"); entityID != "" {
		tags := make(Tags, len(config.GlobalTags), len(config.GlobalTags)+1)
		copy(tags, config.GlobalTags)
		config.GlobalTags = append(tags, Tag{Key: EntityIDTag, Value: entityID})
	}
	return config, nil
}

// LoadConfigFile reads a YAML config file over DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	config := DefaultConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

func (c Config) withDefaults() (Config, error) {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return c, fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxAttemptsToSend < 1 {
		c.MaxAttemptsToSend = DefaultMaxAttemptsToSend
	}
	if c.DecimalPrecision == nil {
		c.DecimalPrecision = Int(DefaultDecimalPrecision)
	}
	if *c.DecimalPrecision < 0 {
		return c, errors.New("decimal precision must not be negative")
	}
	if c.MaxBufferLength <= 0 {
		c.MaxBufferLength = DefaultMaxBufferLength
	}
	if c.DatadogHost == "" {
		c.DatadogHost = DefaultDatadogHost
	}
	if c.Dialer == nil {
		c.Dialer = net.Dial
	}
	if c.Rand == nil {
		c.Rand = rand.Float64
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c, nil
}

func (c Config) transportKind() string {
	if c.SocketPath != "" {
		return "uds"
	}
	return "udp"
}

func (c Config) network() (network, address string) {
	if c.SocketPath != "" {
		return "unixgram", c.SocketPath
	}
	return "udp", net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
