package sender

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DD_AGENT_HOST", "agent.local")
	t.Setenv("DD_DOGSTATSD_PORT", "9125")
	t.Setenv("DD_ENTITY_ID", "pod-1234")

	base := DefaultConfig()
	base.GlobalTags = Tags{{Key: "env", Value: "prod"}}
	config, err := ConfigFromEnv(base)
	require.NoError(t, err)

	assert.Equal(t, "agent.local", config.Host)
	assert.Equal(t, 9125, config.Port)
	assert.Equal(t, "env:prod,dd.internal.entity_id:pod-1234", config.GlobalTags.String())
	assert.Len(t, base.GlobalTags, 1, "input config is not modified")
}

func TestConfigFromEnvInvalidPort(t *testing.T) {
	t.Setenv("DD_DOGSTATSD_PORT", "not-a-port")
	_, err := ConfigFromEnv(DefaultConfig())
	assert.Error(t, err)
}

func TestEntityIDTagIsSent(t *testing.T) {
	t.Setenv("DD_ENTITY_ID", "pod-1234")
	config, err := ConfigFromEnv(DefaultConfig())
	require.NoError(t, err)

	spy := &socketSpy{}
	config.Dialer = spy.dial
	client, err := NewClient(config)
	require.NoError(t, err)

	client.Increment("hits", 1, nil)
	assert.Equal(t, []string{"hits:1|c|#dd.internal.entity_id:pod-1234\n"}, spy.writes)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogstatsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
host: 10.0.0.1
port: 8126
metric_prefix: shop
telemetry: true
max_buffer_length: 10
decimal_precision: 0
global_tags:
  env: staging
  canary: ~
`), 0o600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", config.Host)
	assert.Equal(t, 8126, config.Port)
	assert.Equal(t, "shop", config.MetricPrefix)
	require.NotNil(t, config.Telemetry)
	assert.True(t, *config.Telemetry)
	assert.Equal(t, 10, config.MaxBufferLength)
	require.NotNil(t, config.DecimalPrecision)
	assert.Equal(t, 0, *config.DecimalPrecision, "an explicit zero is kept")
	assert.Equal(t, "env:staging,canary", config.GlobalTags.String())

	network, address := config.network()
	assert.Equal(t, "udp", network)
	assert.Equal(t, "10.0.0.1:8126", address)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	config, err := Config{}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, config.Host)
	assert.Equal(t, DefaultPort, config.Port)
	assert.Equal(t, DefaultMaxAttemptsToSend, config.MaxAttemptsToSend)
	assert.Equal(t, DefaultMaxBufferLength, config.MaxBufferLength)
	assert.Equal(t, DefaultDatadogHost, config.DatadogHost)
	require.NotNil(t, config.DecimalPrecision)
	assert.Equal(t, DefaultDecimalPrecision, *config.DecimalPrecision)
	assert.Nil(t, config.Telemetry, "left to the client kind")
	assert.NotNil(t, config.Dialer)
	assert.NotNil(t, config.Rand)
	assert.NotNil(t, config.Logger)
	assert.Equal(t, "udp", config.transportKind())
}
