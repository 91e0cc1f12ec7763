// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/asynchttp/asynchttp"
	"github.com/asynchttp/asynchttp/config"
	"github.com/asynchttp/asynchttp/mainloop"
	"github.com/asynchttp/asynchttp/payload"
	"github.com/asynchttp/asynchttp/query"
	"github.com/spf13/cobra"
)

// A job is one request to send.
type job struct {
	Name   string            `yaml:"name"`
	Method string            `yaml:"method"`
	URL    string            `yaml:"url"`
	Params map[string]string `yaml:"params"`
	As     string            `yaml:"as"`
	Main   bool              `yaml:"main"`

	values query.Values
}

func (j job) label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Method + " " + query.Encode(j.URL, j.values)
}

// stats accumulates latencies, from submission to delivery, in
// microseconds.
type stats struct {
	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	count    int
	failures int
}

func newStats() *stats {
	return &stats{hist: hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3)}
}

func (s *stats) record(d time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	if failed {
		s.failures++
	}
	_ = s.hist.RecordValue(d.Microseconds())
}

func (s *stats) quantile(q float64) time.Duration {
	return time.Duration(s.hist.ValueAtQuantile(q)) * time.Microsecond
}

// A runner sends jobs through a client whose main context is a
// mainloop.Loop run by the command's goroutine.
type runner struct {
	client *asynchttp.Client
	loop   *mainloop.Loop
	out    *printer
	stats  *stats
}

func newRunner(cmd *cobra.Command, cfg *config.Config, opts *options) (*runner, error) {
	c := *cfg
	c.Dispatcher.PoolSize = opts.pool
	c.Dispatcher.RequestTimeout = opts.timeout
	c.Logging.Level = opts.logLevel
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	loop := mainloop.New(c.Dispatcher.MainBuffer)
	loop.Logger = logger
	client, err := c.NewClient(loop, logger)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	p := newPrinter(out, opts.noColor || !isTerminal(out))
	client.Handlers = &asynchttp.HandlerGroup{}
	if opts.verbose {
		client.Handlers.PushBack(asynchttp.AfterTaskEnd, asynchttp.HandlerFunc(p.detail))
	}

	return &runner{
		client: client,
		loop:   loop,
		out:    p,
		stats:  newStats(),
	}, nil
}

// run submits every job, then runs the main loop until each outcome
// has been delivered and printed.
func (r *runner) run(ctx context.Context, jobs []job) error {
	var submitErr error
	for _, j := range jobs {
		if submitErr = r.submit(j); submitErr != nil {
			break
		}
	}

	go func() {
		r.client.Close()
		r.loop.Close()
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.loop.Run(ctx); err != nil {
		return err
	}
	return submitErr
}

func (r *runner) submit(j job) error {
	method, err := normalizeMethod(j.Method)
	if err != nil {
		return fmt.Errorf("%s: %w", j.label(), err)
	}
	j.Method = method

	start := time.Now()
	h, err := r.handler(j, start)
	if err != nil {
		return fmt.Errorf("%s: %w", j.label(), err)
	}

	submit := r.client.Get
	if method == "POST" {
		submit = r.client.Post
	}
	if submit(j.URL, j.values, j.Main, h) == nil {
		return fmt.Errorf("%s: request not submitted", j.label())
	}
	return nil
}

func (r *runner) handler(j job, start time.Time) (asynchttp.ResponseHandler, error) {
	done := func(body string, err error) {
		d := time.Since(start)
		r.stats.record(d, err != nil)
		r.out.result(j.label(), d, body, j.As == "object" || j.As == "array", err)
	}
	fail := func(err error) { done("", err) }

	switch j.As {
	case "", "string":
		return asynchttp.OnString(func(body string) { done(body, nil) }, fail), nil
	case "object":
		return asynchttp.OnObject(func(o payload.Object) { done(o.Raw(), nil) }, fail), nil
	case "array":
		return asynchttp.OnArray(func(a payload.Array) { done(a.Raw(), nil) }, fail), nil
	default:
		return nil, fmt.Errorf("unknown response type %q: use string, object or array", j.As)
	}
}
