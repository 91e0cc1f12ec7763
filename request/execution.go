// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/asynchttp/asynchttp/failure"
)

// An Execution represents the state of a single asynchronous request
// as it is executed by a worker and its outcome is delivered to the
// response handler.
//
// An Execution is created when the request is submitted and is updated
// only by the task executing it. Event handlers receive the Execution
// at each lifecycle event and should treat its exported fields as
// read-only; they may attach their own data with SetValue.
//
// The Execution is handed from the worker goroutine to the main
// context when delivery is posted there. After the handoff the worker
// no longer touches it, so no further synchronization is needed.
type Execution struct {
	// Request is the request being executed. It is never nil.
	Request *Request
	// State is the current lifecycle state of the execution.
	State State
	// RespondOnMain records whether the caller asked for the outcome
	// to be delivered on the main context.
	RespondOnMain bool
	// Delivery is the context on which the terminal callback runs. It
	// is NoContext until the terminal outcome is decided.
	//
	// Delivery may be Main even if RespondOnMain is false: transport
	// failures are always delivered on the main context.
	Delivery Context
	// Start is the time a worker began executing the request. It is
	// the zero time while the execution is queued.
	Start time.Time
	// End is the time the execution reached the Done state.
	End time.Time
	// HTTPRequest is the lower-level HTTP request sent to the server.
	// It is nil until it has been built.
	HTTPRequest *http.Request
	// Response is the HTTP response received. It is nil if the request
	// failed before a response arrived.
	Response *http.Response
	// Body is the complete response body. It is nil if the body could
	// not be read.
	Body []byte
	// Err is the error which caused a failure outcome: either a
	// transport error of type *url.Error, or a payload parse or
	// validation error. It is nil for a success outcome.
	Err error

	data context.Context
}

// NewExecution returns a new execution for r in the Created state.
func NewExecution(r *Request, respondOnMain bool) *Execution {
	return &Execution{
		Request:       r,
		State:         Created,
		RespondOnMain: respondOnMain,
	}
}

// StatusCode returns the status code of the HTTP response, or 0 if
// there is no response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Header returns the HTTP response headers, or a nil header if there is
// no response. A nil header is safe for read-only use.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}
	return e.Response.Header
}

// Duration returns how long the execution has been running.
//
// If the execution has not yet started, the duration is zero. If the
// execution has ended, the duration is End minus Start. Otherwise it is
// the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}
	return e.End.Sub(e.Start)
}

// Started indicates whether a worker has begun executing the request.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has reached the Done state.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err is a timeout.
func (e *Execution) Timeout() bool {
	return failure.CauseOf(e.Err) == failure.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type, to avoid collisions between
// different event handlers.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}
	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}
	return ctx.Value(key)
}
