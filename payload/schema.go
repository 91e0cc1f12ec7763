// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package payload

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "schema.json"

// A Schema is a compiled JSON Schema which parsed payloads can be
// validated against. A Schema is safe for concurrent use by multiple
// goroutines.
type Schema struct {
	s *jsonschema.Schema
}

// CompileSchema compiles the JSON Schema document in schema.
func CompileSchema(schema string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("asynchttp/payload: invalid schema: %w", err)
	}

	s, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("asynchttp/payload: invalid schema: %w", err)
	}

	return &Schema{s: s}, nil
}

// MustCompileSchema is like CompileSchema but panics if the schema
// cannot be compiled.
func MustCompileSchema(schema string) *Schema {
	s, err := CompileSchema(schema)
	if err != nil {
		panic(err)
	}
	return s
}

// A ValidationError reports a well-formed payload which does not
// satisfy a Schema.
type ValidationError struct {
	// Cause is the detailed error reported by the schema validator.
	Cause error
}

func (err *ValidationError) Error() string {
	return "asynchttp/payload: schema validation failed: " + err.Cause.Error()
}

func (err *ValidationError) Unwrap() error {
	return err.Cause
}

// ValidateObject validates o against the schema. The error, if any, is
// a *ValidationError.
func (s *Schema) ValidateObject(o Object) error {
	return s.validate(o.r.Value())
}

// ValidateArray validates a against the schema. The error, if any, is
// a *ValidationError.
func (s *Schema) ValidateArray(a Array) error {
	return s.validate(a.r.Value())
}

func (s *Schema) validate(v interface{}) error {
	if err := s.s.Validate(v); err != nil {
		return &ValidationError{Cause: err}
	}
	return nil
}
