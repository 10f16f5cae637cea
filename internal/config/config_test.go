package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  env: development
  port: 9000
  jwt_secret: s3cret
mongo:
  uri: mongodb://localhost:27017
  database: chatapp
redis:
  addr: localhost:6379
kafka:
  brokers:
    - localhost:9092
ws:
  ping_interval_seconds: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.App.JWTSecret)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Second, cfg.PingInterval)

	// defaults fill what the file omits
	assert.Equal(t, "users", cfg.Mongo.UsersCollection)
	assert.Equal(t, "gw", cfg.Redis.Prefix)
	assert.Equal(t, "message.sent", cfg.Kafka.TopicMessageSent)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
	assert.Equal(t, 10*time.Second, cfg.WriteDeadline)
	assert.EqualValues(t, 65536, cfg.WS.MaxMessageSizeBytes)
	assert.Equal(t, 256, cfg.WS.SendQueueSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
