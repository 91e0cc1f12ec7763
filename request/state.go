// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A State is a step in the lifecycle of a request execution.
//
// Every execution moves through the states in this order:
//
//	Created → Running → DeliveredSuccess or DeliveredFailure → Done
//
// An execution whose response handler is nil skips the delivered
// states and goes straight from Running to Done.
type State int

const (
	// Created is the state of an execution which has been submitted to
	// the worker pool but has not yet been picked up by a worker.
	Created State = iota
	// Running is the state of an execution while a worker sends the
	// HTTP request and reads the response body.
	Running
	// DeliveredSuccess is the state of an execution whose outcome is a
	// success payload. The response handler's success callback is
	// invoked while the execution is in this state.
	DeliveredSuccess
	// DeliveredFailure is the state of an execution whose outcome is a
	// failure. The response handler's failure callback is invoked
	// while the execution is in this state.
	DeliveredFailure
	// Done is the final state of every execution.
	Done

	stateSentinel
)

var stateNames = []string{
	"Created",
	"Running",
	"DeliveredSuccess",
	"DeliveredFailure",
	"Done",
}

// Name returns the name of the state.
func (s State) Name() string {
	if s < 0 || s >= stateSentinel {
		return "Unknown"
	}
	return stateNames[int(s)]
}

// String returns the name of the state.
func (s State) String() string {
	return s.Name()
}

// Delivered reports whether s is one of the two delivered states.
func (s State) Delivered() bool {
	return s == DeliveredSuccess || s == DeliveredFailure
}

// A Context identifies the execution context on which a response
// handler callback runs.
type Context int

const (
	// NoContext means no callback has been delivered (yet).
	NoContext Context = iota
	// Worker means the callback ran synchronously on the worker
	// goroutine which executed the request.
	Worker
	// Main means the callback was posted to the main context.
	Main
)

// String returns a lower-case name for the context.
func (c Context) String() string {
	switch c {
	case Worker:
		return "worker"
	case Main:
		return "main"
	default:
		return "none"
	}
}
