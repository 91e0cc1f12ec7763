// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transport builds the HTTP client used to send asynchronous
// requests when no custom HTTPDoer is installed in the dispatcher.
//
// The client it builds is safe for concurrent use by every worker in
// the pool. Idle connections are pooled and reused between requests,
// and HTTP/2 is negotiated over TLS when enabled.
package transport

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Default timeouts.
const (
	DefaultConnectTimeout = 6 * time.Second
	DefaultSocketTimeout  = 10 * time.Second
)

// Config contains the settings of an HTTP client built by New.
type Config struct {
	// ConnectTimeout bounds establishing a TCP connection and the TLS
	// handshake. Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration
	// SocketTimeout bounds the wait for response headers after the
	// request has been written, and then each wait for more of the
	// response body. A stalled body fails with a *ReadIdleError. Zero
	// means DefaultSocketTimeout.
	SocketTimeout time.Duration
	// MaxIdleConnsPerHost is the number of idle connections kept per
	// host. It is usually set to the worker pool size. Zero means
	// http.DefaultMaxIdleConnsPerHost.
	MaxIdleConnsPerHost int
	// HTTP2 enables HTTP/2 over TLS.
	HTTP2 bool
}

// DefaultConfig returns the configuration used for Default.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: DefaultConnectTimeout,
		SocketTimeout:  DefaultSocketTimeout,
		HTTP2:          true,
	}
}

// Default is the HTTP client used by the dispatcher when no HTTPDoer is
// configured. It is built from DefaultConfig.
var Default = mustNew(DefaultConfig())

// New builds an HTTP client from cfg.
func New(cfg Config) (*http.Client, error) {
	tr, err := NewTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: &readIdleTransport{base: tr, timeout: socketTimeout(cfg)},
	}, nil
}

// NewTransport builds the connection-level transport underlying the
// client returned by New. It bounds connecting and waiting for headers
// but not reads of the response body.
func NewTransport(cfg Config) (*http.Transport, error) {
	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	socket := socketTimeout(cfg)

	dialer := &net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: socket,
		ExpectContinueTimeout: time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
	}

	if cfg.HTTP2 {
		h2, err := http2.ConfigureTransports(tr)
		if err != nil {
			return nil, fmt.Errorf("asynchttp/transport: configure HTTP/2: %w", err)
		}
		h2.ReadIdleTimeout = socket
		h2.PingTimeout = connect
	}

	return tr, nil
}

func socketTimeout(cfg Config) time.Duration {
	if cfg.SocketTimeout <= 0 {
		return DefaultSocketTimeout
	}
	return cfg.SocketTimeout
}

func mustNew(cfg Config) *http.Client {
	cl, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return cl
}
