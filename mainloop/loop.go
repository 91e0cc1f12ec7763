// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mainloop provides a single-consumer callback loop which can
// serve as the dispatcher's main context.
//
// A Loop stands in for a UI thread: workers post callbacks to it, and
// the one goroutine which runs the loop executes them one at a time in
// the order they were posted. State touched only from loop callbacks
// therefore needs no locking.
//
//	loop := mainloop.New(64)
//	client := &asynchttp.Client{Main: loop}
//	client.Get(url, nil, true, asynchttp.OnString(render, showError))
//	...
//	_ = loop.Run(ctx) // callbacks run here
package mainloop

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// DefaultBuffer is the buffer size used by New for a non-positive size.
const DefaultBuffer = 64

// A Loop is a FIFO queue of callbacks executed by a single consumer.
//
// Post may be called from any goroutine. Run and RunPending must only
// be called from the goroutine which owns the loop.
//
// Backpressure is explicit: Post blocks while the buffer is full,
// until the consumer takes a callback off the queue or the loop is
// closed.
type Loop struct {
	// Logger receives warnings about callbacks posted after close and
	// errors for callbacks that panic. If nil, nothing is logged. Set it before
	// the loop is used.
	Logger *zap.Logger

	ch        chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// New returns a loop whose queue holds up to buffer callbacks before
// Post blocks.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Loop{
		ch:   make(chan func(), buffer),
		done: make(chan struct{}),
	}
}

// Post enqueues f for execution on the loop. Callbacks posted by one
// goroutine run in the order they were posted.
//
// If the loop has been closed, nothing consumes the queue any more, so
// f runs at once on the calling goroutine and a warning is logged.
func (l *Loop) Post(f func()) {
	if f == nil {
		return
	}

	select {
	case <-l.done:
		l.runClosed(f)
		return
	default:
	}

	select {
	case l.ch <- f:
	case <-l.done:
		l.runClosed(f)
	}
}

func (l *Loop) runClosed(f func()) {
	l.logger().Warn("mainloop: callback posted after close ran on the caller")
	l.call(f)
}

// Run executes posted callbacks on the calling goroutine until ctx is
// done or the loop is closed. After Close, callbacks which were already
// queued are executed before Run returns nil. If ctx ends first, Run
// returns ctx.Err() and leaves any queued callbacks in place.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case f := <-l.ch:
			l.call(f)
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			l.RunPending()
			return nil
		}
	}
}

// RunPending executes the callbacks queued at the time of the call
// without waiting for new ones, and returns how many ran. It lets the
// loop be pumped from a foreign event loop, or step by step in tests.
func (l *Loop) RunPending() int {
	n := len(l.ch)
	for i := 0; i < n; i++ {
		select {
		case f := <-l.ch:
			l.call(f)
		default:
			return i
		}
	}
	return n
}

// Len returns the number of callbacks waiting in the queue.
func (l *Loop) Len() int {
	return len(l.ch)
}

// Close stops the loop from accepting callbacks. Callbacks posted after
// Close run on the posting goroutine. It is safe to call Close more than
// once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

func (l *Loop) call(f func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger().Error("mainloop: callback panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	f()
}

func (l *Loop) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}
