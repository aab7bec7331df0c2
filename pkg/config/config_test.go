package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	var cfg Config
	require.NoError(t, Load(&cfg))

	assert.Equal(t, time.Second, cfg.Scheduler.TickInterval)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.SnapshotInterval)
	assert.Equal(t, 40, cfg.History.Buckets)
	assert.Equal(t, 6*time.Hour, cfg.History.Width)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, "venue-ledger:", cfg.Redis.PrefixKey)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"main"}, cfg.App.Venues)
	assert.NoError(t, cfg.History.Validate())
	assert.NoError(t, cfg.Redis.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_VENUES", "north,south")
	t.Setenv("SCHEDULER_TICK_INTERVAL", "250ms")
	t.Setenv("HISTORY_BUCKETS", "8")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("GATEWAY_ADDR", ":9999")

	var cfg Config
	require.NoError(t, Load(&cfg))

	assert.Equal(t, []string{"north", "south"}, cfg.App.Venues)
	assert.Equal(t, 250*time.Millisecond, cfg.Scheduler.TickInterval)
	assert.Equal(t, 8, cfg.History.Buckets)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, ":9999", cfg.Gateway.Addr)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("APP_NAME") })

	var cfg Config
	require.NoError(t, Load(&cfg, path))
	assert.Equal(t, "from-file", cfg.App.Name)

	assert.Error(t, Load(&cfg, filepath.Join(t.TempDir(), "missing.env")))
}
