package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults apply when nothing is set", func(t *testing.T) {
		t.Setenv("TAPESTRY_ADDR", "")
		t.Setenv("TAPESTRY_KAFKA_BROKERS", "")
		t.Setenv("TAPESTRY_JWT_SIGNING_KEY", "")

		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.NotEmpty(t, cfg.JWTSigningKey)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("TAPESTRY_ADDR", ":9090")
		t.Setenv("TAPESTRY_POSTGRES_DSN", "postgres://localhost/tapestry")
		t.Setenv("TAPESTRY_JWT_SIGNING_KEY", "prod-key")

		cfg := FromEnv()
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "postgres://localhost/tapestry", cfg.PostgresDSN)
		assert.Equal(t, "prod-key", cfg.JWTSigningKey)
	})

	t.Run("broker list is split, trimmed, and deduped", func(t *testing.T) {
		t.Setenv("TAPESTRY_KAFKA_BROKERS", " kafka-1:9092 ,kafka-2:9092, kafka-1:9092 ,")

		cfg := FromEnv()
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	})
}
