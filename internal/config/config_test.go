package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "REDIS_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_ENABLED", "SHUTDOWN_TIMEOUT", shutdownSecondsEnvVar,
		"IDEMPOTENCY_TTL", idemTTLSecondsEnvVar, "RATE_LIMIT_PER_MINUTE",
		"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "PaymentInstructions", cfg.AppName)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "payment_instruction_processed", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.TracingEnabled())
	assert.True(t, cfg.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv(idemTTLSecondsEnvVar, "60")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, time.Minute, cfg.IdempotencyTTL)
	assert.True(t, cfg.TracingEnabled())
}

func TestLoadSecondsOverrideWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv(shutdownSecondsEnvVar, "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.ShutdownPeriod)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad seconds", env: map[string]string{shutdownSecondsEnvVar: "soon"}},
		{name: "bad duration", env: map[string]string{"IDEMPOTENCY_TTL": "forever"}},
		{name: "negative rate limit", env: map[string]string{"RATE_LIMIT_PER_MINUTE": "-1"}},
		{name: "redis required outside dev", env: map[string]string{"APP_ENV": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
