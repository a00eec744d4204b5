package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	raw := []byte(`
app:
  logLevel: debug
  order:
    defaultProfile: standard
    delayProfiles:
      standard: ["10s", "10s", "30s"]
infra:
  kafka:
    brokers: ["kafka-1:9092", "kafka-2:9092"]
`)
	cfg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Infra.Kafka.Brokers)
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second, 30 * time.Second},
		cfg.App.Order.Stages("standard"))
	// 未覆盖的字段保留默认值
	assert.NotEmpty(t, cfg.Infra.Jaeger.Endpoint)
}

func TestParseRejectsBadDuration(t *testing.T) {
	raw := []byte(`
app:
  order:
    delayProfiles:
      standard: ["ten seconds"]
`)
	_, err := Parse(raw)
	assert.Error(t, err)
}

func TestEnvOverridesApply(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-a:9092, broker-b:9092")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.Infra.Kafka.Brokers)
	assert.Equal(t, "env-secret", cfg.App.JWTSecret)
}

func TestDefaultDelayProfiles(t *testing.T) {
	cfg := Default()

	standard := cfg.App.Order.Stages("standard")
	require.Len(t, standard, 7)
	var total time.Duration
	for _, d := range standard {
		total += d
	}
	assert.Equal(t, 2*time.Minute, total)

	assert.Nil(t, cfg.App.Order.Stages("nope"))
	assert.NotEmpty(t, cfg.App.Order.Stages(cfg.App.Order.DefaultProfile))
}
