// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality, such as metrics (see package metrics) or tracing.
type Event int

const (
	// BeforeTaskStart identifies the event that occurs when a worker
	// picks up a request, before the execution moves from the Created
	// state to the Running state.
	//
	// When Client fires BeforeTaskStart, the execution is non-nil but
	// the only fields that have been set are the request and the
	// delivery flag.
	BeforeTaskStart Event = iota
	// BeforeSend identifies the event that occurs after the lower-level
	// HTTP request has been built but before it is sent.
	//
	// When Client fires BeforeSend, the execution's HTTPRequest field
	// is set to the request that WILL BE sent after all BeforeSend
	// handlers have finished. Handlers may modify it, for example to
	// add headers, but should clone reference-typed fields first.
	//
	// BeforeSend does not fire if the HTTP request could not be built
	// (for example because the URL cannot be parsed).
	BeforeSend
	// BeforeReadBody identifies the event that occurs after an HTTP
	// response has been received, but before its body is read.
	//
	// Note that BeforeReadBody never fires if sending the request ended
	// in error, but always fires if an HTTP response is received,
	// regardless of status code.
	BeforeReadBody
	// AfterSend identifies the event that occurs after the network
	// round trip ends, whether or not it succeeded.
	//
	// When Client fires AfterSend, either the execution's Body field is
	// set, or its Err field is set to a transport error.
	AfterSend
	// BeforeDeliver identifies the event that occurs once the terminal
	// outcome of the request has been decided, but before the response
	// handler is called.
	//
	// When Client fires BeforeDeliver, the execution's State is either
	// DeliveredSuccess or DeliveredFailure and its Delivery field says
	// where the handler will be called. BeforeDeliver always fires on
	// the worker goroutine.
	//
	// BeforeDeliver does not fire if the response handler is nil.
	BeforeDeliver
	// AfterTaskEnd identifies the event that occurs after the response
	// handler has returned, when the execution is in the Done state.
	//
	// AfterTaskEnd fires on the same context as the response handler
	// callback: on the main context if delivery was posted there, and
	// otherwise on the worker goroutine.
	AfterTaskEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeTaskStart",
	"BeforeSend",
	"BeforeReadBody",
	"AfterSend",
	"BeforeDeliver",
	"AfterTaskEnd",
}

// Events returns a slice containing all events which can occur in a
// request execution, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeTaskStart,
		BeforeSend,
		BeforeReadBody,
		AfterSend,
		BeforeDeliver,
		AfterTaskEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
