// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Supported HTTP methods.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// ErrEmptyURL is returned by New when the URL is empty.
var ErrEmptyURL = errors.New("asynchttp/request: empty URL")

// A Request describes one asynchronous HTTP request. It is the request
// descriptor handed back to callers of the dispatcher's Get and Post
// methods.
//
// A Request is immutable once built. Its fields can only be read via
// accessor methods, so a Request may be shared freely between the
// caller, the worker executing it, and any event handlers.
type Request struct {
	id      string
	method  string
	url     string
	created time.Time
}

// New returns a new Request for the given method and fully-built URL
// (including any query string).
//
// An empty method means GET. Only GET and POST are supported; any other
// method produces an error, as does an empty URL. The URL is not parsed
// at this point: a URL which cannot be parsed surfaces later as a
// transport error when the request executes.
func New(method, url string) (*Request, error) {
	if method == "" {
		method = MethodGet
	}
	if method != MethodGet && method != MethodPost {
		return nil, fmt.Errorf("asynchttp/request: unsupported method %q", method)
	}
	if url == "" {
		return nil, ErrEmptyURL
	}

	return &Request{
		id:      uuid.NewString(),
		method:  method,
		url:     url,
		created: time.Now(),
	}, nil
}

// ID returns the unique identifier of the request. It is a random
// (version 4) UUID in its canonical string form.
func (r *Request) ID() string {
	return r.id
}

// Method returns the request's HTTP method, either GET or POST.
func (r *Request) Method() string {
	return r.method
}

// URL returns the complete request URL, including the query string.
func (r *Request) URL() string {
	return r.url
}

// Created returns the time the request was built.
func (r *Request) Created() time.Time {
	return r.created
}

// String returns a short human-readable description of the request.
func (r *Request) String() string {
	return r.method + " " + r.url
}
