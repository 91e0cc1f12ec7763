// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/asynchttp/asynchttp/query"
	"github.com/asynchttp/asynchttp/request"
	"github.com/asynchttp/asynchttp/timeout"
	"github.com/asynchttp/asynchttp/transport"
	"go.uber.org/zap"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
//
// The HTTPDoer is shared by every worker, so it must be safe for
// concurrent use by multiple goroutines.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// A MainContext is a single logical thread of execution, such as a UI
// event loop, onto which response handler callbacks can be posted.
//
// Post enqueues f to run later on the main context. Callbacks posted by
// the same goroutine must run in the order they were posted. Post must
// be safe to call from multiple goroutines. Post must not discard f: a
// context which can no longer run callbacks should run f on the calling
// goroutine instead, so every request still delivers its outcome.
// Package mainloop provides a channel-backed implementation.
type MainContext interface {
	Post(f func())
}

// DefaultPoolSize is the number of workers used when Client.PoolSize is
// not positive.
const DefaultPoolSize = 4

// ErrClosed is returned by Client.Do after the client has been closed.
var ErrClosed = errors.New("asynchttp: client closed")

// A Client dispatches HTTP requests to a fixed-size pool of worker
// goroutines and delivers each outcome to a ResponseHandler. Its zero
// value is a valid configuration.
//
// The zero value client uses DefaultPoolSize workers, transport.Default
// as the HTTPDoer, timeout.DefaultPolicy as the timeout policy, no
// event handlers, no logging, and no main context (so every callback
// runs on a worker goroutine).
//
// Configure the exported fields before the first request is submitted
// and do not change them afterward. The worker pool starts lazily on
// the first submission. Client is safe for concurrent use by multiple
// goroutines.
//
// Get, Post and Do never block waiting for the network: they queue the
// request and return at once. At most PoolSize requests are in flight
// at the same time; further requests wait in an unbounded queue.
//
// Each request delivers exactly one outcome to its handler:
//
// • A transport error (the request could not be sent, no response
// arrived, the body could not be read, or the timeout expired) is
// always delivered on the main context, whatever respondOnMain says.
//
// • A successfully read body is turned into the handler's payload. The
// success, or the failure to parse the body, is delivered on the main
// context if respondOnMain is true, and otherwise synchronously on the
// worker goroutine.
//
// • A nil handler receives nothing; the request is still sent.
//
// HTTP status codes are not interpreted: an error status with a
// readable body is delivered as a success.
type Client struct {
	// PoolSize is the number of worker goroutines. If PoolSize is not
	// positive, DefaultPoolSize is used.
	PoolSize int
	// Main is the context onto which callbacks are posted. If Main is
	// nil, callbacks which would be posted run on the worker instead.
	Main MainContext
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, transport.Default is used.
	HTTPDoer HTTPDoer
	// TimeoutPolicy decides the overall timeout of each request.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during a request execution.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Logger receives structured logs about each request. If Logger is
	// nil, nothing is logged.
	Logger *zap.Logger

	once sync.Once
	pool *pool
}

var emptyHandlers = HandlerGroup{}

// Do submits a prebuilt request for execution and returns immediately.
//
// The outcome is delivered to h according to the rules documented on
// Client. Do returns ErrClosed, and delivers nothing, if the client has
// been closed.
//
// For simple use cases, the Get and Post methods may prove easier to use
// than Do.
func (c *Client) Do(r *request.Request, respondOnMain bool, h ResponseHandler) error {
	if r == nil {
		panic("asynchttp: nil request")
	}

	c.start()
	t := c.newTask(r, respondOnMain, h)
	if !c.pool.submit(t.run) {
		t.logger.Warn("asynchttp: request submitted after close was dropped", t.fields()...)
		return ErrClosed
	}
	t.logger.Debug("asynchttp: request queued", append(t.fields(), zap.Bool("respond_on_main", respondOnMain))...)
	return nil
}

// Get issues a GET to the URL built from url and params, following the
// rules documented on Client, and returns the request descriptor.
//
// The query string is built by query.Encode: parameters are appended
// in order and are not percent-encoded. If url is empty, or the client
// is closed, Get submits nothing and returns nil.
func (c *Client) Get(url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request {
	return Get(c, url, params, respondOnMain, h)
}

// Post issues a POST, with an empty body, to the URL built from url and
// params, following the rules documented on Client, and returns the
// request descriptor.
//
// The query string is built by query.Encode: parameters are appended
// in order and are not percent-encoded. If url is empty, or the client
// is closed, Post submits nothing and returns nil.
func (c *Client) Post(url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request {
	return Post(c, url, params, respondOnMain, h)
}

// Pending returns the number of submitted requests which are waiting
// for a free worker.
func (c *Client) Pending() int {
	c.start()
	return c.pool.pending()
}

// Close stops the client accepting new requests, then waits until every
// request already submitted has been executed. Deliveries posted to the
// main context may still be waiting there when Close returns.
func (c *Client) Close() {
	c.start()
	c.pool.close()
}

func (c *Client) start() {
	c.once.Do(func() {
		size := c.PoolSize
		if size <= 0 {
			size = DefaultPoolSize
		}
		c.pool = newPool(size, c.logger())
	})
}

func (c *Client) newTask(r *request.Request, respondOnMain bool, h ResponseHandler) *task {
	doer := c.HTTPDoer
	if doer == nil {
		doer = transport.Default
	}

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}

	return &task{
		e:        request.NewExecution(r, respondOnMain),
		handler:  h,
		doer:     doer,
		main:     c.Main,
		timeout:  timeoutPolicy,
		handlers: handlers,
		logger:   c.logger(),
	}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

var shared atomic.Pointer[Client]

// Initialize creates a client with poolSize workers which posts to
// main, makes it the shared client returned by Shared, and returns it.
//
// Initialize is meant to be called once, at program start-up. Calling
// it again replaces the shared client (the last call wins) without
// closing the previous one, so requests already submitted to the
// previous client still complete. Initialize panics if poolSize is not
// positive.
//
// Programs which can pass a *Client around explicitly should prefer
// doing so over using the shared client.
func Initialize(poolSize int, main MainContext) *Client {
	if poolSize < 1 {
		panic("asynchttp: pool size must be positive")
	}

	c := &Client{
		PoolSize: poolSize,
		Main:     main,
	}
	shared.Store(c)
	return c
}

// Shared returns the client created by the most recent call to
// Initialize, or nil if Initialize has not been called.
func Shared() *Client {
	return shared.Load()
}
