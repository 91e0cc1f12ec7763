// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"errors"
	"net/url"
	"syscall"

	"github.com/asynchttp/asynchttp/payload"
)

// A Kind is the class of a failure delivered to a response handler, as
// reported by KindOf.
type Kind int

const (
	// None indicates a nil error.
	None Kind = iota
	// Transport indicates the failure originated in the network call
	// itself: building the HTTP request, sending it, receiving the
	// response, or reading the response body. Transport failures are
	// always delivered on the main context.
	//
	// KindOf returns Transport for any *url.Error, which is the type
	// the dispatcher wraps every transport error in.
	Transport
	// Parse indicates a response body was received but could not be
	// turned into the payload the response handler expects, either
	// because it is not well-formed JSON of the right kind, or because
	// it failed schema validation. Parse failures are delivered on the
	// context selected by the caller.
	Parse
	// Other indicates any other non-nil error.
	Other
)

var kindNames = []string{"none", "transport", "parse", "other"}

// String returns a lower-case name for the kind.
func (k Kind) String() string {
	if k < None || k > Other {
		return "unknown"
	}
	return kindNames[k]
}

// KindOf returns the failure kind of err. Wrapped causes are inspected,
// so an error wrapping a *payload.ParseError is a Parse failure.
func KindOf(err error) Kind {
	if err == nil {
		return None
	}

	var parseErr *payload.ParseError
	var validationErr *payload.ValidationError
	if errors.As(err, &parseErr) || errors.As(err, &validationErr) {
		return Parse
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Transport
	}

	return Other
}

// A Cause is the underlying reason for a transport failure, as reported
// by CauseOf.
type Cause int

const (
	// Unknown indicates a nil error or an error with no recognized
	// cause.
	Unknown Cause = iota
	// Timeout indicates a client-side timeout: the connect timeout,
	// the socket timeout, or the request timeout policy.
	//
	// CauseOf returns Timeout if the error or any of its wrapped causes
	// has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection,
	// corresponding to the POSIX error code ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// TCP connection, corresponding to the POSIX error code ECONNRESET.
	ConnReset
)

var causeNames = []string{"unknown", "timeout", "conn_refused", "conn_reset"}

// String returns a lower-case name for the cause.
func (c Cause) String() string {
	if c < Unknown || c > ConnReset {
		return "unknown"
	}
	return causeNames[c]
}

// CauseOf returns the underlying cause of err. Timeouts take precedence
// over connection errors.
//
// CauseOf never checks if an error has a Temporary() function, as the
// semantics of Temporary() aren't entirely clear.
func CauseOf(err error) Cause {
	if err == nil {
		return Unknown
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Unknown
}

type hasTimeout interface {
	Timeout() bool
}
