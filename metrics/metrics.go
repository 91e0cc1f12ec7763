// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics instruments an asynchttp.Client with Prometheus
// metrics by installing event handlers into its HandlerGroup.
//
//	m := metrics.New(prometheus.DefaultRegisterer, "myapp")
//	handlers := &asynchttp.HandlerGroup{}
//	m.Install(handlers)
//	client := &asynchttp.Client{Handlers: handlers}
package metrics

import (
	"time"

	"github.com/asynchttp/asynchttp"
	"github.com/asynchttp/asynchttp/failure"
	"github.com/asynchttp/asynchttp/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the outcome label of a request which ended without
// error. Failed requests are labelled with their failure.Kind.
const OutcomeSuccess = "success"

// Metrics holds the Prometheus collectors for one client.
type Metrics struct {
	// RequestsTotal counts finished requests by method and outcome.
	RequestsTotal *prometheus.CounterVec
	// DeliveriesTotal counts outcomes by the context they were
	// delivered on.
	DeliveriesTotal *prometheus.CounterVec
	// InFlight is the number of requests a worker has picked up which
	// have not yet finished.
	InFlight prometheus.Gauge
	// RequestDuration observes the time from a worker picking a request
	// up until it finished, in seconds.
	RequestDuration *prometheus.HistogramVec
	// QueueWait observes the time requests spent queued before a worker
	// picked them up, in seconds.
	QueueWait prometheus.Histogram
}

// New creates the collectors and registers them with reg. Metric names
// are prefixed with namespace if it is not empty.
//
// New panics if the collectors cannot be registered, for example
// because the same namespace was already registered with reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "asynchttp_requests_total",
				Help:      "Total number of finished asynchronous HTTP requests",
			},
			[]string{"method", "outcome"},
		),
		DeliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "asynchttp_deliveries_total",
				Help:      "Total number of outcomes delivered to response handlers",
			},
			[]string{"context", "state"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "asynchttp_requests_in_flight",
				Help:      "Number of requests currently being executed by a worker",
			},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "asynchttp_request_duration_seconds",
				Help:      "Asynchronous HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method"},
		),
		QueueWait: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "asynchttp_queue_wait_seconds",
				Help:      "Time requests spent waiting for a free worker, in seconds",
				Buckets:   []float64{.0001, .001, .01, .1, .5, 1, 5, 10},
			},
		),
	}
}

// Install adds the metrics event handlers to g. Install must be called
// before the client using g sends its first request.
func (m *Metrics) Install(g *asynchttp.HandlerGroup) {
	g.PushBack(asynchttp.BeforeTaskStart, asynchttp.HandlerFunc(m.started))
	g.PushBack(asynchttp.BeforeDeliver, asynchttp.HandlerFunc(m.delivering))
	g.PushBack(asynchttp.AfterTaskEnd, asynchttp.HandlerFunc(m.ended))
}

func (m *Metrics) started(_ asynchttp.Event, e *request.Execution) {
	m.InFlight.Inc()
	m.QueueWait.Observe(time.Since(e.Request.Created()).Seconds())
}

func (m *Metrics) delivering(_ asynchttp.Event, e *request.Execution) {
	m.DeliveriesTotal.WithLabelValues(e.Delivery.String(), e.State.String()).Inc()
}

func (m *Metrics) ended(_ asynchttp.Event, e *request.Execution) {
	m.InFlight.Dec()
	method := e.Request.Method()
	m.RequestsTotal.WithLabelValues(method, Outcome(e)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(e.Duration().Seconds())
}

// Outcome returns the outcome label for a finished execution.
func Outcome(e *request.Execution) string {
	if e.Err == nil {
		return OutcomeSuccess
	}
	return failure.KindOf(e.Err).String()
}
