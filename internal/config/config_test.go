package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "KAFKA_BROKERS", "KAFKA_TOPIC", "API_PORT", "ENV", "LOG_LEVEL",
		"WOOCOMMERCE_TIMEOUT", "WOOCOMMERCE_INIT_ATTEMPTS", "WOOCOMMERCE_INIT_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "part-events", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, 30*time.Second, cfg.WooCommerceTimeout)
	assert.Equal(t, 10, cfg.WooCommerceInitAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.WooCommerceInitInterval)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("WOOCOMMERCE_INIT_ATTEMPTS", "3")
	t.Setenv("WOOCOMMERCE_INIT_INTERVAL", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, 3, cfg.WooCommerceInitAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.WooCommerceInitInterval)
	assert.Equal(t, []string{"https://admin.test"}, cfg.CORSAllowedOrigins)
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	t.Setenv("TEST_DURATION", "soon")

	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Nil(t, getEnvAsList("TEST_UNSET_LIST", nil))
}
