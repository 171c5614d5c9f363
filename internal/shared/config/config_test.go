package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "booking-events", cfg.Kafka.BookingEventsTopic)
	assert.Equal(t, 10*time.Minute, cfg.Jobs.TripReconcileInterval)
	assert.Equal(t, 200, cfg.Jobs.TripReconcileBatchSize)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("TRIP_RECONCILE_INTERVAL", "90s")
	t.Setenv("JWT_EXPIRES_IN", "600")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("DB_HOST", "db.internal")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Second, cfg.Jobs.TripReconcileInterval)
	assert.Equal(t, 10*time.Minute, cfg.JWT.JWTExpiresIn)
	assert.Equal(t, 587, cfg.Email.SMTPPort, "unparsable values fall back")
	assert.Contains(t, cfg.Database.DSN, "host=db.internal")
}
