package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CALLBACK_MAX_ATTEMPTS", "")

	cfg := Load()

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Consumer.MaxAttempts)
	assert.Equal(t, -1, cfg.Producer.Acks)
	assert.Equal(t, "localhost:5432", cfg.Database.Addr())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092 ,")
	t.Setenv("CALLBACK_MAX_ATTEMPTS", "5")
	t.Setenv("KAFKA_PRODUCER_ACKS", "1")
	t.Setenv("KAFKA_PRODUCER_IDEMPOTENT", "false")

	cfg := Load()

	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5, cfg.Consumer.MaxAttempts)
	assert.Equal(t, 1, cfg.Producer.Acks)
	assert.False(t, cfg.Producer.Idempotent)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no brokers", func(c *Config) { c.Kafka.Brokers = nil }, "KAFKA_BROKERS"},
		{"no topic", func(c *Config) { c.Consumer.Topic = "" }, "KAFKA_CONSUMER_TOPIC"},
		{"no group", func(c *Config) { c.Consumer.GroupID = "" }, "KAFKA_CONSUMER_GROUP_ID"},
		{"zero attempts", func(c *Config) { c.Consumer.MaxAttempts = 0 }, "CALLBACK_MAX_ATTEMPTS"},
		{"zero workers", func(c *Config) { c.Consumer.Workers = 0 }, "KAFKA_CONSUMER_WORKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Kafka:    KafkaConfig{Brokers: []string{"localhost:9092"}},
				Consumer: ConsumerConfig{Topic: "t", GroupID: "g", Workers: 1, MaxAttempts: 3},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
