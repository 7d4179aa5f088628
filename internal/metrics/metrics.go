// Package metrics records parse and evaluation activity of the calculator.
//
// Use New for Prometheus-backed metrics or Noop{} when disabled.
package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/zephyrtronium/rpncalc"
)

// Recorder records calculator metrics.
type Recorder interface {
	// ObserveParse records one call to Parse with its duration and error.
	ObserveParse(d time.Duration, err error)
	// ObserveEval records one evaluation with its duration and error.
	ObserveEval(d time.Duration, err error)
}

// Noop is a Recorder that does nothing.
type Noop struct{}

func (Noop) ObserveParse(time.Duration, error) {}
func (Noop) ObserveEval(time.Duration, error)  {}

// Metrics is a Recorder backed by a private Prometheus registry.
type Metrics struct {
	reg     *prometheus.Registry
	parses  *prometheus.CounterVec
	evals   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// New creates Prometheus metrics registered in a new registry.
func New() *Metrics {
	m := Metrics{
		reg: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rpncalc",
				Name:      "parses_total",
				Help:      "Number of expressions parsed, by outcome",
			},
			[]string{"outcome"},
		),
		evals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rpncalc",
				Name:      "evaluations_total",
				Help:      "Number of expressions evaluated, by outcome",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rpncalc",
				Name:      "stage_duration_seconds",
				Help:      "Duration of parse and evaluation stages",
				Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 7),
			},
			[]string{"stage"},
		),
	}
	m.reg.MustRegister(m.parses, m.evals, m.latency)
	return &m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) ObserveParse(d time.Duration, err error) {
	m.parses.WithLabelValues(Outcome(err)).Inc()
	m.latency.WithLabelValues("parse").Observe(d.Seconds())
}

func (m *Metrics) ObserveEval(d time.Duration, err error) {
	m.evals.WithLabelValues(Outcome(err)).Inc()
	m.latency.WithLabelValues("eval").Observe(d.Seconds())
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	mfs, err := m.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Outcome gives the metric label for an error: "ok" for nil, the error kind
// for calculator errors, and "error" otherwise.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var se *rpncalc.SyntaxError
	if errors.As(err, &se) {
		return se.Kind.String()
	}
	var ee *rpncalc.EvaluationError
	if errors.As(err, &ee) {
		return ee.Kind.String()
	}
	return "error"
}

var (
	_ Recorder = Noop{}
	_ Recorder = (*Metrics)(nil)
)
