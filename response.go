// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"github.com/asynchttp/asynchttp/payload"
)

// A ResponseHandler receives the terminal outcome of an asynchronous
// request: exactly one call to either its success callback or its
// failure callback.
//
// ResponseHandler is a closed set. The only implementations are
// *StringHandler, *ObjectHandler and *ArrayHandler, and the variant
// the caller constructs decides which payload the success callback
// receives. Every variant has a failure callback.
//
// Callback fields left nil are skipped; the outcome still counts as
// delivered.
type ResponseHandler interface {
	fail(err error)
}

// A StringHandler receives the raw response body as text.
type StringHandler struct {
	// Success receives the complete response body.
	Success func(body string)
	// Failure receives a transport error.
	Failure func(err error)
}

// OnString returns a StringHandler with the given callbacks.
func OnString(success func(body string), failure func(err error)) *StringHandler {
	return &StringHandler{Success: success, Failure: failure}
}

func (h *StringHandler) fail(err error) {
	if h.Failure != nil {
		h.Failure(err)
	}
}

// An ObjectHandler receives the response body parsed as a JSON object.
type ObjectHandler struct {
	// Success receives the parsed object.
	Success func(o payload.Object)
	// Failure receives a transport error, a *payload.ParseError if the
	// body is not a JSON object, or a *payload.ValidationError if the
	// object does not satisfy Schema.
	Failure func(err error)
	// Schema, if not nil, is checked against every parsed object before
	// it is passed to Success.
	Schema *payload.Schema
}

// OnObject returns an ObjectHandler with the given callbacks.
func OnObject(success func(o payload.Object), failure func(err error)) *ObjectHandler {
	return &ObjectHandler{Success: success, Failure: failure}
}

// WithSchema sets the handler's schema and returns the handler.
func (h *ObjectHandler) WithSchema(s *payload.Schema) *ObjectHandler {
	h.Schema = s
	return h
}

func (h *ObjectHandler) fail(err error) {
	if h.Failure != nil {
		h.Failure(err)
	}
}

// An ArrayHandler receives the response body parsed as a JSON array.
type ArrayHandler struct {
	// Success receives the parsed array.
	Success func(a payload.Array)
	// Failure receives a transport error, a *payload.ParseError if the
	// body is not a JSON array, or a *payload.ValidationError if the
	// array does not satisfy Schema.
	Failure func(err error)
	// Schema, if not nil, is checked against every parsed array before
	// it is passed to Success.
	Schema *payload.Schema
}

// OnArray returns an ArrayHandler with the given callbacks.
func OnArray(success func(a payload.Array), failure func(err error)) *ArrayHandler {
	return &ArrayHandler{Success: success, Failure: failure}
}

// WithSchema sets the handler's schema and returns the handler.
func (h *ArrayHandler) WithSchema(s *payload.Schema) *ArrayHandler {
	h.Schema = s
	return h
}

func (h *ArrayHandler) fail(err error) {
	if h.Failure != nil {
		h.Failure(err)
	}
}

// isNil reports whether h is nil, including a typed nil pointer.
func isNil(h ResponseHandler) bool {
	switch x := h.(type) {
	case nil:
		return true
	case *ObjectHandler:
		return x == nil
	case *ArrayHandler:
		return x == nil
	case *StringHandler:
		return x == nil
	default:
		return false
	}
}
