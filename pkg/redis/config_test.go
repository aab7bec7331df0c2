package redis

import (
	"context"
	"testing"

	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "cluster", mutate: func(c *Config) { c.Mode = Cluster }},
		{name: "no addresses", mutate: func(c *Config) { c.Addrs = nil }, wantErr: true},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "sentinel" }, wantErr: true},
		{name: "zero pool", mutate: func(c *Config) { c.PoolSize = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantErr: true},
		{name: "zero connect timeout", mutate: func(c *Config) { c.ConnectTimeout = 0 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, string(errors.RedisConfigError), errors.CodeOf(err))
		})
	}

	var nilConfig *Config
	assert.Error(t, nilConfig.Validate())
}

func TestClient_NotConnected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addrs = nil
	c := NewClient(logger.NewNop(), cfg)

	assert.Equal(t, string(errors.RedisConfigError), errors.CodeOf(c.Connect(context.Background())))
	assert.Equal(t, string(errors.RedisPingError), errors.CodeOf(c.Ping(context.Background())))
	assert.NoError(t, c.Disconnect(context.Background()))
}
