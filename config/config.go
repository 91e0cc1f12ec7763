// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads client configuration from environment variables
// and builds a ready-to-use asynchttp.Client from it.
//
// Every variable is prefixed with ASYNCHTTP_ and the name of the group
// it belongs to, for example ASYNCHTTP_DISPATCHER_POOL_SIZE or
// ASYNCHTTP_TRANSPORT_CONNECT_TIMEOUT. Durations use Go duration
// syntax ("6s", "250ms").
package config

import (
	"fmt"
	"time"

	"github.com/asynchttp/asynchttp"
	"github.com/asynchttp/asynchttp/internal/logging"
	"github.com/asynchttp/asynchttp/mainloop"
	"github.com/asynchttp/asynchttp/timeout"
	"github.com/asynchttp/asynchttp/transport"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Prefix is the environment variable prefix used by Load.
const Prefix = "ASYNCHTTP"

// Config holds all client configuration.
type Config struct {
	Dispatcher DispatcherConfig
	Transport  TransportConfig
	Logging    LogConfig
}

// DispatcherConfig holds worker pool and delivery configuration.
type DispatcherConfig struct {
	PoolSize       int           `envconfig:"POOL_SIZE" default:"4"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	MainBuffer     int           `envconfig:"MAIN_BUFFER" default:"64"`
}

// TransportConfig holds HTTP transport configuration.
type TransportConfig struct {
	ConnectTimeout      time.Duration `envconfig:"CONNECT_TIMEOUT" default:"6s"`
	SocketTimeout       time.Duration `envconfig:"SOCKET_TIMEOUT" default:"10s"`
	MaxIdleConnsPerHost int           `envconfig:"MAX_IDLE_CONNS_PER_HOST" default:"0"`
	HTTP2               bool          `envconfig:"HTTP2" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LEVEL" default:"info"`
	Development bool   `envconfig:"DEVELOPMENT" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Dispatcher: DispatcherConfig{
			PoolSize:       asynchttp.DefaultPoolSize,
			RequestTimeout: 30 * time.Second,
			MainBuffer:     mainloop.DefaultBuffer,
		},
		Transport: TransportConfig{
			ConnectTimeout: transport.DefaultConnectTimeout,
			SocketTimeout:  transport.DefaultSocketTimeout,
			HTTP2:          true,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting which cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Dispatcher.PoolSize < 1:
		return fmt.Errorf("invalid config: pool size must be positive, got %d", c.Dispatcher.PoolSize)
	case c.Dispatcher.RequestTimeout <= 0:
		return fmt.Errorf("invalid config: request timeout must be positive, got %s", c.Dispatcher.RequestTimeout)
	case c.Transport.ConnectTimeout < 0 || c.Transport.SocketTimeout < 0:
		return fmt.Errorf("invalid config: transport timeouts must not be negative")
	}
	return nil
}

// TransportConfig converts the transport settings for package transport.
func (c *Config) TransportConfig() transport.Config {
	return transport.Config{
		ConnectTimeout:      c.Transport.ConnectTimeout,
		SocketTimeout:       c.Transport.SocketTimeout,
		MaxIdleConnsPerHost: c.Transport.MaxIdleConnsPerHost,
		HTTP2:               c.Transport.HTTP2,
	}
}

// Logger builds the logger described by the logging settings.
func (c *Config) Logger() (*zap.Logger, error) {
	l, err := logging.New(logging.Config{
		Level:       c.Logging.Level,
		Development: c.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.Logger, nil
}

// NewClient builds a client from the configuration which delivers to
// main (which may be nil) and logs to logger (which may be nil).
func (c *Config) NewClient(main asynchttp.MainContext, logger *zap.Logger) (*asynchttp.Client, error) {
	doer, err := transport.New(c.TransportConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build transport: %w", err)
	}

	return &asynchttp.Client{
		PoolSize:      c.Dispatcher.PoolSize,
		Main:          main,
		HTTPDoer:      doer,
		TimeoutPolicy: timeout.Fixed(c.Dispatcher.RequestTimeout),
		Logger:        logger,
	}, nil
}
