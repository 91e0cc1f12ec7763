// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// A ReadIdleError reports a response body on which no data arrived for
// the socket timeout. It is a net.Error whose Timeout method reports
// true.
type ReadIdleError struct {
	// Idle is the socket timeout which elapsed.
	Idle time.Duration
}

func (err *ReadIdleError) Error() string {
	return fmt.Sprintf("asynchttp/transport: no response data for %s", err.Idle)
}

// Timeout reports true.
func (err *ReadIdleError) Timeout() bool { return true }

// Temporary reports true.
func (err *ReadIdleError) Temporary() bool { return true }

// readIdleTransport bounds each read of a response body. The timer only
// runs while a Read is blocked, so time the caller spends between reads
// does not count.
type readIdleTransport struct {
	base    *http.Transport
	timeout time.Duration
}

func (t *readIdleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancel(req.Context())
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &readIdleBody{rc: resp.Body, timeout: t.timeout, cancel: cancel}
	return resp, nil
}

func (t *readIdleTransport) CloseIdleConnections() {
	t.base.CloseIdleConnections()
}

type readIdleBody struct {
	rc      io.ReadCloser
	timeout time.Duration
	cancel  context.CancelFunc
	timer   *time.Timer
	expired atomic.Bool
}

func (b *readIdleBody) Read(p []byte) (int, error) {
	if b.timer == nil {
		b.timer = time.AfterFunc(b.timeout, b.expire)
	} else {
		b.timer.Reset(b.timeout)
	}
	n, err := b.rc.Read(p)
	b.timer.Stop()
	if err != nil && err != io.EOF && b.expired.Load() {
		err = &ReadIdleError{Idle: b.timeout}
	}
	return n, err
}

func (b *readIdleBody) Close() error {
	if b.timer != nil {
		b.timer.Stop()
	}
	err := b.rc.Close()
	b.cancel()
	return err
}

func (b *readIdleBody) expire() {
	b.expired.Store(true)
	b.cancel()
}
