// Package telemetry provides the span contract used by the request handlers
// and a Prometheus-backed implementation of it.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Tracer starts spans.
type Tracer interface {
	Start(ctx context.Context, name string) Span
}

// Span wraps a single handler invocation. End must be called exactly once.
type Span interface {
	SetAttribute(key string, value any)
	SetStatus(ok bool, description string)
	End()
}

// Metrics holds the collectors recorded by the span tracer.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// NewMetrics creates and registers the handler collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballotboard_handler_requests_total",
				Help: "Total number of handler invocations",
			},
			[]string{"span", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ballotboard_handler_duration_seconds",
				Help:    "Duration of handler invocations in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"span"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ballotboard_handler_requests_in_flight",
				Help: "Number of handler invocations currently running",
			},
		),
	}
}

// MetricsTracer records spans as Prometheus samples and logs them at debug level.
type MetricsTracer struct {
	metrics *Metrics
	log     zerolog.Logger
}

func NewMetricsTracer(m *Metrics, log zerolog.Logger) *MetricsTracer {
	return &MetricsTracer{metrics: m, log: log.With().Str("component", "span").Logger()}
}

func (t *MetricsTracer) Start(_ context.Context, name string) Span {
	t.metrics.RequestsInFlight.Inc()
	return &metricsSpan{
		tracer: t,
		name:   name,
		start:  time.Now(),
		ok:     true,
		attrs:  map[string]any{},
	}
}

type metricsSpan struct {
	tracer      *MetricsTracer
	name        string
	start       time.Time
	ok          bool
	description string
	attrs       map[string]any
	ended       bool
}

func (s *metricsSpan) SetAttribute(key string, value any) {
	s.attrs[key] = value
}

func (s *metricsSpan) SetStatus(ok bool, description string) {
	s.ok = ok
	s.description = description
}

func (s *metricsSpan) End() {
	if s.ended {
		return
	}
	s.ended = true

	m := s.tracer.metrics
	m.RequestsInFlight.Dec()
	status := "success"
	if !s.ok {
		status = "error"
	}
	duration := time.Since(s.start)
	m.RequestsTotal.WithLabelValues(s.name, status).Inc()
	m.RequestDuration.WithLabelValues(s.name).Observe(duration.Seconds())

	event := s.tracer.log.Debug()
	if !s.ok {
		event = s.tracer.log.Warn().Str("description", s.description)
	}
	event.
		Str("span", s.name).
		Str("status", status).
		Dur("duration_ms", duration).
		Fields(s.attrs).
		Msg("span ended")
}

// NopTracer discards spans.
type NopTracer struct{}

func (NopTracer) Start(context.Context, string) Span { return nopSpan{} }

type nopSpan struct{}

func (nopSpan) SetAttribute(string, any) {}
func (nopSpan) SetStatus(bool, string)   {}
func (nopSpan) End()                     {}
