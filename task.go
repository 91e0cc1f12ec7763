// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asynchttp/asynchttp/failure"
	"github.com/asynchttp/asynchttp/payload"
	"github.com/asynchttp/asynchttp/request"
	"github.com/asynchttp/asynchttp/timeout"
	"go.uber.org/zap"
)

// A task executes one request on a worker and delivers its outcome.
//
// Delivery rules:
//
//   - a transport error is always delivered on the main context;
//   - a success, and a failure to parse the body, are delivered on the
//     main context if the caller asked for it, and otherwise inline on
//     the worker;
//   - nothing is delivered to a nil handler.
//
// Each path delivers exactly once.
type task struct {
	e        *request.Execution
	handler  ResponseHandler
	doer     HTTPDoer
	main     MainContext
	timeout  timeout.Policy
	handlers *HandlerGroup
	logger   *zap.Logger
}

func (t *task) run() {
	e := t.e
	t.handlers.run(BeforeTaskStart, e, t.logger)
	e.Start = time.Now()
	e.State = request.Running
	t.logger.Debug("asynchttp: request started", t.fields()...)

	t.send()

	if isNil(t.handler) {
		t.finish()
		return
	}

	if e.Err != nil {
		t.fail(request.Main, e.Err)
		return
	}

	ctx := request.Worker
	if e.RespondOnMain {
		ctx = request.Main
	}

	body := string(e.Body)
	switch h := t.handler.(type) {
	case *ObjectHandler:
		o, err := payload.ParseObject(body)
		if err == nil && h.Schema != nil {
			err = h.Schema.ValidateObject(o)
		}
		if err != nil {
			t.fail(ctx, err)
			return
		}
		t.succeed(ctx, func() {
			if h.Success != nil {
				h.Success(o)
			}
		})
	case *ArrayHandler:
		a, err := payload.ParseArray(body)
		if err == nil && h.Schema != nil {
			err = h.Schema.ValidateArray(a)
		}
		if err != nil {
			t.fail(ctx, err)
			return
		}
		t.succeed(ctx, func() {
			if h.Success != nil {
				h.Success(a)
			}
		})
	case *StringHandler:
		t.succeed(ctx, func() {
			if h.Success != nil {
				h.Success(body)
			}
		})
	}
}

// send performs the network round trip and reads the whole body. On
// return either e.Body is set or e.Err holds a transport error.
func (t *task) send() {
	e := t.e
	defer t.handlers.run(AfterSend, e, t.logger)

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout.Timeout(e))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, e.Request.Method(), e.Request.URL(), nil)
	if err != nil {
		e.Err = urlErrorWrap(e.Request, err)
		return
	}
	e.HTTPRequest = req
	t.handlers.run(BeforeSend, e, t.logger)

	resp, err := t.doer.Do(e.HTTPRequest)
	if err != nil {
		e.Err = urlErrorWrap(e.Request, err)
		return
	}
	e.Response = resp
	t.readBody()
}

func (t *task) readBody() {
	e := t.e
	defer func() {
		_ = e.Response.Body.Close()
	}()
	t.handlers.run(BeforeReadBody, e, t.logger)
	b, err := io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = urlErrorWrap(e.Request, err)
		return
	}
	e.Body = b
}

func (t *task) succeed(ctx request.Context, f func()) {
	t.deliver(request.DeliveredSuccess, ctx, f)
}

func (t *task) fail(ctx request.Context, err error) {
	t.e.Err = err
	h := t.handler
	t.deliver(request.DeliveredFailure, ctx, func() {
		h.fail(err)
	})
}

func (t *task) deliver(state request.State, ctx request.Context, f func()) {
	e := t.e
	e.State = state
	if ctx == request.Main && t.main == nil {
		ctx = request.Worker
	}
	e.Delivery = ctx
	t.handlers.run(BeforeDeliver, e, t.logger)

	callback := func() {
		t.invoke(f)
		t.finish()
	}
	if ctx == request.Main {
		t.main.Post(callback)
	} else {
		callback()
	}
}

// invoke calls a response handler callback. A panicking callback is
// logged and otherwise ignored so the execution still reaches Done.
func (t *task) invoke(f func()) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("asynchttp: response handler panicked",
				append(t.fields(), zap.Any("panic", r), zap.Stack("stack"))...)
		}
	}()
	f()
}

func (t *task) finish() {
	e := t.e
	e.State = request.Done
	e.End = time.Now()
	t.handler = nil
	t.handlers.run(AfterTaskEnd, e, t.logger)
	fields := append(t.fields(),
		zap.Stringer("delivery", e.Delivery),
		zap.Duration("duration", e.Duration()),
		zap.Int("status", e.StatusCode()))
	if e.Err != nil {
		fields = append(fields,
			zap.Error(e.Err),
			zap.Stringer("failure", failure.KindOf(e.Err)),
			zap.Stringer("cause", failure.CauseOf(e.Err)))
	}
	t.logger.Debug("asynchttp: request done", fields...)
}

func (t *task) fields() []zap.Field {
	r := t.e.Request
	return []zap.Field{
		zap.String("request_id", r.ID()),
		zap.String("method", r.Method()),
		zap.String("url", r.URL()),
	}
}

func urlErrorWrap(r *request.Request, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(r.Method()),
		URL: r.URL(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
