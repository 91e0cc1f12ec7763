// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"errors"
	"fmt"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/asynchttp/asynchttp/payload"
	"github.com/asynchttp/asynchttp/transport"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	_, parseErr := payload.ParseObject("{")
	assert.Equal(t, None, KindOf(nil))
	assert.Equal(t, Other, KindOf(errors.New("foo")))
	assert.Equal(t, Transport, KindOf(&url.Error{Op: "Get", URL: "x", Err: syscall.ECONNREFUSED}))
	assert.Equal(t, Transport, KindOf(wrapper{&url.Error{Err: errors.New("bar")}}))
	assert.Equal(t, Parse, KindOf(parseErr))
	assert.Equal(t, Parse, KindOf(wrapper{parseErr}))
	assert.Equal(t, Parse, KindOf(&payload.ValidationError{Cause: errors.New("baz")}))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "transport", Transport.String())
	assert.Equal(t, "parse", Parse.String())
	assert.Equal(t, "other", Other.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestCauseOf(t *testing.T) {
	assert.Equal(t, Unknown, CauseOf(nil))
	assert.Equal(t, Unknown, CauseOf(errors.New("foo")))
	assert.Equal(t, Unknown, CauseOf(wrapper{}))
	assert.Equal(t, Unknown, CauseOf(wrapper{errors.New("bar")}))
	assert.Equal(t, Timeout, CauseOf(syscall.ETIMEDOUT))
	assert.Equal(t, Timeout, CauseOf(timeout{}))
	assert.Equal(t, Timeout, CauseOf(&url.Error{Err: syscall.ETIMEDOUT}))
	assert.Equal(t, Timeout, CauseOf(&url.Error{Err: timeout{}}))
	assert.Equal(t, Timeout, CauseOf(&url.Error{Op: "Get", URL: "x", Err: &transport.ReadIdleError{Idle: time.Second}}))
	assert.Equal(t, Timeout, CauseOf(wrapper{wrapper{timeout{}}}))
	assert.Equal(t, Timeout, CauseOf(timeoutWrapper{true, syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, CauseOf(syscall.ECONNRESET))
	assert.Equal(t, ConnReset, CauseOf(timeoutWrapper{false, syscall.ECONNRESET}))
	assert.Equal(t, ConnRefused, CauseOf(syscall.ECONNREFUSED))
	assert.Equal(t, ConnRefused, CauseOf(&url.Error{Err: wrapper{timeoutWrapper{false, syscall.ECONNREFUSED}}}))
}

func TestCause_String(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "conn_refused", ConnRefused.String())
	assert.Equal(t, "conn_reset", ConnReset.String())
	assert.Equal(t, "unknown", Cause(-1).String())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (_ timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
