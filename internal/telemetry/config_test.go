package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, DefaultServiceName, cfg.GetServiceName())
	assert.Equal(t, "unknown", cfg.GetServiceVersion())
	assert.Equal(t, DefaultEndpoint, cfg.GetEndpoint())
	assert.False(t, cfg.GetInsecure())
	assert.InDelta(t, DefaultSampling, (&TracingConfig{}).GetSampling(), 0.0001)

	cfg = &Config{ServiceName: "helper", ServiceVersion: "1.2.3", Endpoint: "collector:4318", Insecure: true}
	assert.Equal(t, "helper", cfg.GetServiceName())
	assert.Equal(t, "1.2.3", cfg.GetServiceVersion())
	assert.Equal(t, "collector:4318", cfg.GetEndpoint())
	assert.True(t, cfg.GetInsecure())
	assert.InDelta(t, 0.25, (&TracingConfig{Sampling: 0.25}).GetSampling(), 0.0001)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		config        *Config
		errorContains string
	}{
		{name: "nil config", config: nil},
		{name: "disabled config skips validation", config: &Config{
			Tracing: &TracingConfig{Enabled: true, Sampling: 7},
		}},
		{name: "valid tracing and metrics", config: &Config{
			Enabled: true,
			Tracing: &TracingConfig{Enabled: true, Sampling: 0.5},
			Metrics: &MetricsConfig{Enabled: true, Prometheus: true},
		}},
		{name: "sampling above one", config: &Config{
			Enabled: true,
			Tracing: &TracingConfig{Enabled: true, Sampling: 1.5},
		}, errorContains: "tracing: sampling must be between 0.0 and 1.0"},
		{name: "negative sampling", config: &Config{
			Enabled: true,
			Tracing: &TracingConfig{Enabled: true, Sampling: -0.1},
		}, errorContains: "sampling must be between"},
		{name: "metrics without exporter", config: &Config{
			Enabled: true,
			Metrics: &MetricsConfig{Enabled: true},
		}, errorContains: "metrics: at least one of prometheus or otlp"},
		{name: "disabled metrics without exporter", config: &Config{
			Enabled: true,
			Metrics: &MetricsConfig{Enabled: false},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestConfigYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
enabled: true
serviceName: deco
endpoint: otel.local:4318
insecure: true
tracing:
  enabled: true
  sampling: 0.1
metrics:
  enabled: true
  prometheus: true
  otlp: false
`)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "deco", cfg.ServiceName)
	assert.Equal(t, "otel.local:4318", cfg.Endpoint)
	require.NotNil(t, cfg.Tracing)
	assert.InDelta(t, 0.1, cfg.Tracing.Sampling, 0.0001)
	require.NotNil(t, cfg.Metrics)
	assert.True(t, cfg.Metrics.Prometheus)
	assert.False(t, cfg.Metrics.OTLP)
	assert.NoError(t, cfg.Validate())
}
