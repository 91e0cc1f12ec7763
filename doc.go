// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package asynchttp provides a fire-and-forget HTTP client which runs
requests on a fixed pool of background workers and delivers each
outcome, exactly once, to a typed response handler.

Create a Client, optionally attached to a main context such as a UI
event loop, and begin making requests:

	loop := mainloop.New(mainloop.DefaultBuffer)
	client := &asynchttp.Client{PoolSize: 4, Main: loop}
	client.Get("https://www.example.com/items",
		query.Values{}.Add("page", "1"),
		true, // deliver the success on the main context
		asynchttp.OnArray(showItems, showError))
	...
	_ = loop.Run(ctx)

The variant of response handler decides how the body is presented:
OnString passes the raw text, OnObject parses a JSON object and OnArray
parses a JSON array. A body which does not parse as the requested
variant is reported to the failure callback with a *payload.ParseError.
Use WithSchema to also validate the parsed payload against a JSON
schema.

Transport failures (connection errors, timeouts and unreadable bodies)
are always delivered on the main context, wrapped in a *url.Error.
Package failure classifies them. Successes and parse failures go to the
main context only when the caller asks for it, and otherwise run on the
worker goroutine.

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. Package transport builds one with
connect and socket timeouts and HTTP/2 enabled:

	doer, err := transport.New(transport.Config{
		ConnectTimeout: 2 * time.Second,
		SocketTimeout:  5 * time.Second,
		HTTP2:          true,
	})
	client := &asynchttp.Client{
		HTTPDoer:      doer,
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	}

To hook into the fine-grained details of each request's lifecycle,
install a handler into the appropriate handler chain. Package metrics
installs Prometheus instrumentation this way:

	handlers := &asynchttp.HandlerGroup{}
	handlers.PushBack(asynchttp.AfterTaskEnd, asynchttp.HandlerFunc(
		func(_ asynchttp.Event, e *request.Execution) {
			log.Printf("%s finished in %s", e.Request, e.Duration())
		}))
	client := &asynchttp.Client{Handlers: handlers}

Programs which want one process-wide client can create it with
Initialize and retrieve it anywhere with Shared.

Package asynchttp provides basic interfaces for each method of the
client (Doer, Getter and Poster); a combined interface that composes
all the basic methods (Executor); and utility functions for working with
a Doer (Inflate, Get and Post).
*/
package asynchttp
