package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "")
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.BootstrapServers)
	assert.Equal(t, "all", cfg.Kafka.Acks)
	assert.True(t, cfg.Kafka.EnableIdempotence)
	assert.Equal(t, 5*time.Second, cfg.Kafka.MessageTimeout)
	assert.Equal(t, 3*time.Second, cfg.Kafka.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Kafka.ConsumerRetryBackoff)
	assert.Equal(t, "earliest", cfg.Kafka.AutoOffsetReset)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_CONSUMER_GROUP_ID", "catalog")
	t.Setenv("KAFKA_ENABLE_IDEMPOTENCE", "false")
	t.Setenv("KAFKA_CONSUMER_RETRY_BACKOFF_MS", "250")
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg := LoadConfig()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.BootstrapServers)
	assert.Equal(t, "catalog-tenant-events", cfg.Kafka.TenantEventsGroupID())
	assert.False(t, cfg.Kafka.EnableIdempotence)
	assert.Equal(t, 250*time.Millisecond, cfg.Kafka.ConsumerRetryBackoff)
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	cfg := LoadConfig()
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET_KEY")
}
