// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"github.com/asynchttp/asynchttp/query"
	"github.com/asynchttp/asynchttp/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do submits a request for asynchronous execution and arranges for its
// outcome to be delivered to h. Client implements the Doer interface,
// and any other Doer implementation must behave substantially the same
// as Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(r *request.Request, respondOnMain bool, h ResponseHandler) error
}

// Getter is the interface that wraps the basic Get method.
//
// Get builds a GET request from a URL and query parameters, submits it,
// and returns the request descriptor, or nil if nothing was submitted.
// Client implements the Getter interface.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request
}

// Poster is the interface that wraps the basic Post method.
//
// Post builds a POST request from a URL and query parameters, submits
// it, and returns the request descriptor, or nil if nothing was
// submitted. Client implements the Poster interface.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request
}

// Executor is the interface that groups the basic Do, Get and Post
// methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Poster
}

// Get uses the specified Doer to issue a GET to the URL built from url
// and params.
//
// If url is empty, nothing is submitted, no callback is invoked, and
// the return value is nil. The return value is also nil if d.Do
// returns an error.
func Get(d Doer, url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request {
	return submit(d, request.MethodGet, url, params, respondOnMain, h)
}

// Post uses the specified Doer to issue a POST to the URL built from url
// and params.
//
// If url is empty, nothing is submitted, no callback is invoked, and
// the return value is nil. The return value is also nil if d.Do
// returns an error.
func Post(d Doer, url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request {
	return submit(d, request.MethodPost, url, params, respondOnMain, h)
}

func submit(d Doer, method, url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request {
	if url == "" {
		return nil
	}

	r, err := request.New(method, query.Encode(url, params))
	if err != nil {
		return nil
	}

	if err = d.Do(r, respondOnMain, h); err != nil {
		return nil
	}

	return r
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("asynchttp: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(r *request.Request, respondOnMain bool, h ResponseHandler) error {
	return i.doer.Do(r, respondOnMain, h)
}

func (i inflated) Get(url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request {
	return Get(i.doer, url, params, respondOnMain, h)
}

func (i inflated) Post(url string, params query.Values, respondOnMain bool, h ResponseHandler) *request.Request {
	return Post(i.doer, url, params, respondOnMain, h)
}
