// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/asynchttp/asynchttp/mainloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
	t.Run("from environment", func(t *testing.T) {
		t.Setenv("ASYNCHTTP_DISPATCHER_POOL_SIZE", "9")
		t.Setenv("ASYNCHTTP_DISPATCHER_REQUEST_TIMEOUT", "1m")
		t.Setenv("ASYNCHTTP_TRANSPORT_CONNECT_TIMEOUT", "250ms")
		t.Setenv("ASYNCHTTP_TRANSPORT_HTTP2", "false")
		t.Setenv("ASYNCHTTP_LOGGING_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Dispatcher.PoolSize)
		assert.Equal(t, time.Minute, cfg.Dispatcher.RequestTimeout)
		assert.Equal(t, 250*time.Millisecond, cfg.Transport.ConnectTimeout)
		assert.Equal(t, 10*time.Second, cfg.Transport.SocketTimeout)
		assert.False(t, cfg.Transport.HTTP2)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
	t.Run("malformed", func(t *testing.T) {
		t.Setenv("ASYNCHTTP_DISPATCHER_POOL_SIZE", "many")

		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.ErrorContains(t, err, "failed to load config")
		assert.Equal(t, Default(), LoadOrDefault())
	})
	t.Run("invalid", func(t *testing.T) {
		t.Setenv("ASYNCHTTP_DISPATCHER_POOL_SIZE", "0")

		_, err := Load()
		assert.EqualError(t, err, "invalid config: pool size must be positive, got 0")
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	cfg.Dispatcher.RequestTimeout = 0
	assert.Error(t, cfg.Validate())
	cfg = Default()
	cfg.Transport.SocketTimeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestConfig_Logger(t *testing.T) {
	cfg := Default()
	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	cfg.Logging.Level = "loud"
	_, err = cfg.Logger()
	assert.ErrorContains(t, err, "failed to build logger")
}

func TestConfig_NewClient(t *testing.T) {
	cfg := Default()
	cfg.Dispatcher.PoolSize = 3
	cfg.Dispatcher.RequestTimeout = 5 * time.Second
	loop := mainloop.New(cfg.Dispatcher.MainBuffer)

	cl, err := cfg.NewClient(loop, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cl.PoolSize)
	assert.Same(t, loop, cl.Main)
	assert.IsType(t, &http.Client{}, cl.HTTPDoer)
	assert.Equal(t, 5*time.Second, cl.TimeoutPolicy.Timeout(nil))
	assert.Nil(t, cl.Logger)
}
