// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package payload

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// A ParseError reports a response body which could not be parsed as the
// JSON value a response handler expects.
type ParseError struct {
	// Want is the expected top-level kind, either "object" or "array".
	Want string
	// Got describes what was found instead: "invalid JSON" if the text
	// is not well-formed, otherwise the top-level JSON kind found.
	Got string
	// Text is the text which failed to parse, truncated to a short
	// prefix.
	Text string
}

const maxErrorText = 64

func (err *ParseError) Error() string {
	return fmt.Sprintf("asynchttp/payload: expected JSON %s, got %s: %q", err.Want, err.Got, err.Text)
}

func newParseError(want, got, text string) *ParseError {
	if len(text) > maxErrorText {
		text = text[:maxErrorText] + "..."
	}
	return &ParseError{Want: want, Got: got, Text: text}
}

// An Object is a parsed JSON object.
type Object struct {
	r gjson.Result
}

// ParseObject parses text as a JSON object. Leading and trailing
// whitespace is permitted. If text is not well-formed JSON, or its
// top-level value is not an object, the error is a *ParseError.
func ParseObject(text string) (Object, error) {
	r, err := parse(text, "object")
	if err != nil {
		return Object{}, err
	}
	return Object{r: r}, nil
}

// Get searches the object for the gjson path and returns the result.
// A path is a series of keys separated by dots, for example
// "user.name" or "items.0.id".
func (o Object) Get(path string) gjson.Result {
	return o.r.Get(path)
}

// Has reports whether the object has a value at path.
func (o Object) Has(path string) bool {
	return o.r.Get(path).Exists()
}

// Map returns the object's members keyed by name.
func (o Object) Map() map[string]gjson.Result {
	return o.r.Map()
}

// Value returns the object as a plain Go value, using the same types
// encoding/json uses when unmarshalling into an interface{}.
func (o Object) Value() map[string]interface{} {
	m, _ := o.r.Value().(map[string]interface{})
	return m
}

// Raw returns the raw JSON text of the object, without surrounding
// whitespace.
func (o Object) Raw() string {
	return o.r.Raw
}

// String returns the raw JSON text of the object.
func (o Object) String() string {
	return o.r.Raw
}

// An Array is a parsed JSON array.
type Array struct {
	r     gjson.Result
	elems []gjson.Result
}

// ParseArray parses text as a JSON array. Leading and trailing
// whitespace is permitted. If text is not well-formed JSON, or its
// top-level value is not an array, the error is a *ParseError.
func ParseArray(text string) (Array, error) {
	r, err := parse(text, "array")
	if err != nil {
		return Array{}, err
	}
	return Array{r: r, elems: r.Array()}, nil
}

// Len returns the number of elements in the array.
func (a Array) Len() int {
	return len(a.elems)
}

// Index returns the element at position i. It panics if i is out of
// range.
func (a Array) Index(i int) gjson.Result {
	return a.elems[i]
}

// Elements returns the elements of the array.
func (a Array) Elements() []gjson.Result {
	return a.elems
}

// Value returns the array as a plain Go value, using the same types
// encoding/json uses when unmarshalling into an interface{}.
func (a Array) Value() []interface{} {
	s, _ := a.r.Value().([]interface{})
	return s
}

// Raw returns the raw JSON text of the array, without surrounding
// whitespace.
func (a Array) Raw() string {
	return a.r.Raw
}

// String returns the raw JSON text of the array.
func (a Array) String() string {
	return a.r.Raw
}

func parse(text, want string) (gjson.Result, error) {
	// gjson drops leading whitespace from Raw but keeps trailing.
	text = strings.TrimSpace(text)
	if !gjson.Valid(text) {
		return gjson.Result{}, newParseError(want, "invalid JSON", text)
	}

	r := gjson.Parse(text)
	switch {
	case want == "object" && r.IsObject():
		return r, nil
	case want == "array" && r.IsArray():
		return r, nil
	}

	return gjson.Result{}, newParseError(want, kindName(r), text)
}

func kindName(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	}

	switch r.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	default:
		return "null"
	}
}
