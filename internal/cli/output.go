// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/asynchttp/asynchttp"
	"github.com/asynchttp/asynchttp/failure"
	"github.com/asynchttp/asynchttp/request"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/tidwall/pretty"
)

// printer writes outcomes. Outcomes are delivered on worker goroutines
// as well as the main loop, so every write holds mu.
type printer struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool

	success *color.Color
	failure *color.Color
	label   *color.Color
	dim     *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:       w,
		noColor: noColor,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		label:   color.New(color.FgCyan),
		dim:     color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.success, p.failure, p.label, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) result(label string, d time.Duration, body string, json bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.failure.Fprint(p.w, "✗ ")
		p.label.Fprint(p.w, label)
		p.dim.Fprintf(p.w, " (%s)", round(d))
		fmt.Fprintf(p.w, " %s failure", failure.KindOf(err))
		if cause := failure.CauseOf(err); cause != failure.Unknown {
			fmt.Fprintf(p.w, " (%s)", cause)
		}
		fmt.Fprintf(p.w, ": %v\n", err)
		return
	}

	p.success.Fprint(p.w, "✓ ")
	p.label.Fprint(p.w, label)
	p.dim.Fprintf(p.w, " (%s)\n", round(d))
	out := []byte(body)
	if json {
		out = pretty.Pretty(out)
		if !p.noColor {
			out = pretty.Color(out, nil)
		}
	}
	_, _ = p.w.Write(out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(p.w)
	}
}

// detail is an AfterTaskEnd event handler which describes how a request
// ended.
func (p *printer) detail(_ asynchttp.Event, e *request.Execution) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dim.Fprintf(p.w, "  id=%s status=%d delivered=%s duration=%s\n",
		e.Request.ID(), e.StatusCode(), e.Delivery, round(e.Duration()))
}

func (p *printer) summary(s *stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(p.w, strings.Repeat("-", 40))
	fmt.Fprintf(p.w, "requests: %d  ", s.count)
	if s.failures > 0 {
		p.failure.Fprintf(p.w, "failures: %d\n", s.failures)
	} else {
		p.success.Fprintf(p.w, "failures: %d\n", s.failures)
	}
	if s.count == 0 {
		return
	}
	fmt.Fprintf(p.w, "latency: p50=%s p90=%s p99=%s max=%s mean=%s\n",
		round(s.quantile(50)),
		round(s.quantile(90)),
		round(s.quantile(99)),
		round(time.Duration(s.hist.Max())*time.Microsecond),
		round(time.Duration(s.hist.Mean())*time.Microsecond))
}

func round(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return d.Round(time.Microsecond)
	}
	return d.Round(100 * time.Microsecond)
}
