// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package query builds request URLs by appending an ordered list of
// query parameters to a base URL.
//
// Parameters are inserted verbatim: no percent-encoding is performed.
// Callers passing values which contain reserved characters ('&', '=',
// '#', spaces, and so on) must encode them beforehand, for example
// with url.QueryEscape from package net/url.
package query

import (
	"sort"
	"strings"
)

// A Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Values is an ordered list of query parameters. Unlike url.Values,
// the order in which parameters are added is the order in which they
// are encoded.
//
// The zero value (nil) is an empty parameter list.
type Values []Param

// Add appends the key/value pair to v and returns the extended list.
func (v Values) Add(key, value string) Values {
	return append(v, Param{Key: key, Value: value})
}

// Len returns the number of parameters in v.
func (v Values) Len() int {
	return len(v)
}

// FromMap converts a map into Values. Go maps have no stable iteration
// order, so the keys are sorted to give the result a deterministic
// order.
//
// A nil or empty map produces nil Values.
func FromMap(m map[string]string) Values {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	v := make(Values, len(keys))
	for i, k := range keys {
		v[i] = Param{Key: k, Value: m[k]}
	}
	return v
}

// Encode returns base with the parameters in v appended as a query
// string.
//
// If v is empty, base is returned unchanged. Otherwise the result is
// base, followed by '?', followed by each parameter as key=value in
// the order of v, joined by '&'.
func Encode(base string, v Values) string {
	if len(v) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('?')
	for i, p := range v {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}
