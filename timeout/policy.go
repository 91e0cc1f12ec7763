// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/asynchttp/asynchttp/request"
)

// A Policy defines a timeout policy which may be plugged into the
// dispatcher (asynchttp.Client) to set the overall timeout of each
// request.
//
// The timeout covers sending the request and reading the whole response
// body. When it expires the request fails with a transport error whose
// Timeout method reports true. Lower-level timeouts configured on the
// HTTP transport (see package transport) apply independently.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the request whose execution
	// is about to start.
	Timeout(e *request.Execution) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 30 seconds on each request.
var DefaultPolicy Policy = Fixed(30 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value for every
// request.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (p fixed) Timeout(_ *request.Execution) time.Duration {
	return time.Duration(p)
}

// ByMethod constructs a timeout policy which chooses the timeout by
// HTTP method. Methods missing from byMethod get the usual timeout.
//
// For example, the following policy gives uploads a minute but keeps
// everything else at five seconds:
//
//	p := ByMethod(5*time.Second, map[string]time.Duration{
//		request.MethodPost: time.Minute,
//	})
func ByMethod(usual time.Duration, byMethod map[string]time.Duration) Policy {
	m := make(map[string]time.Duration, len(byMethod))
	for method, d := range byMethod {
		m[method] = d
	}
	return methodPolicy{usual: usual, m: m}
}

type methodPolicy struct {
	usual time.Duration
	m     map[string]time.Duration
}

func (p methodPolicy) Timeout(e *request.Execution) time.Duration {
	if e.Request != nil {
		if d, ok := p.m[e.Request.Method()]; ok {
			return d
		}
	}
	return p.usual
}
