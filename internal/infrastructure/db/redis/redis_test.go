package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigOptions_Defaults(t *testing.T) {
	opts := Config{Addr: "localhost:6379"}.options()

	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, defaultPoolSize, opts.PoolSize)
	assert.Equal(t, defaultTimeout, opts.DialTimeout)
	assert.Equal(t, defaultTimeout, opts.ReadTimeout)
	assert.Equal(t, clientName, opts.ClientName)
}

func TestConfigOptions_Overrides(t *testing.T) {
	opts := Config{Addr: "cache:6380", DB: 2, PoolSize: 32, Timeout: time.Second}.options()

	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 32, opts.PoolSize)
	assert.Equal(t, time.Second, opts.WriteTimeout)
}
