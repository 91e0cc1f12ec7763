// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"github.com/asynchttp/asynchttp/request"
	"go.uber.org/zap"
)

// A HandlerGroup holds one handler chain per Event. Install it in a
// Client to observe request tasks, as package metrics does.
//
// Chains for BeforeTaskStart through BeforeDeliver run on the worker.
// The AfterTaskEnd chain runs wherever the outcome was delivered, which
// may be the main context. Handlers must therefore be safe for
// concurrent use, and every handler must be pushed before the Client
// submits its first request.
//
// A handler which panics is logged and skipped. The rest of its chain
// still runs and the task still reaches request.Done.
type HandlerGroup struct {
	chains [numEvents][]Handler
}

// PushBack appends h to the chain for evt. It panics if h is nil or evt
// is not a known Event.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("asynchttp: nil handler")
	}

	g.chains[evt] = append(g.chains[evt], h)
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	return len(g.chains[evt])
}

func (g *HandlerGroup) run(evt Event, e *request.Execution, logger *zap.Logger) {
	for _, h := range g.chains[evt] {
		safeHandle(h, evt, e, logger)
	}
}

func safeHandle(h Handler, evt Event, e *request.Execution, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			fields := []zap.Field{zap.Stringer("event", evt), zap.Any("panic", r)}
			if e.Request != nil {
				fields = append(fields, zap.String("request_id", e.Request.ID()))
			}
			logger.Error("asynchttp: event handler panicked", fields...)
		}
	}()
	h.Handle(evt, e)
}

// A Handler observes one Event of a request task. The Execution is
// owned by the task: read it during Handle, but do not keep it or change
// its State.
type Handler interface {
	Handle(Event, *request.Execution)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
