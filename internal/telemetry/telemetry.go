// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for analyses.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "newscheck"

// Failure reasons used as the "reason" label.
const (
	ReasonTimeout   = "timeout"
	ReasonTransport = "transport"
	ReasonMalformed = "malformed"
	ReasonCanceled  = "canceled"
)

// Metrics holds all newscheck Prometheus metrics.
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec
	AnalysisFailures   *prometheus.CounterVec
	AnalysisDuration   *prometheus.HistogramVec
	HighlightsReturned prometheus.Histogram
	Diagnostics        *prometheus.CounterVec
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	Registry *prometheus.Registry
}

// NewProvider registers metrics on a fresh registry, together with the Go
// runtime and process collectors, so tests and multiple servers never
// collide on the default registry.
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(reg),
		Registry: reg,
	}
}

func initMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newscheck_analyses_total",
			Help: "Successful analyses by backend and prediction",
		}, []string{"backend", "prediction"}),

		AnalysisFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newscheck_analysis_failures_total",
			Help: "Failed analyses by backend and reason",
		}, []string{"backend", "reason"}),

		AnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newscheck_analysis_duration_seconds",
			Help:    "Time spent waiting for a backend verdict",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"backend"}),

		HighlightsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newscheck_highlights_per_analysis",
			Help:    "Highlights returned per successful analysis",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),

		Diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newscheck_highlight_diagnostics_total",
			Help: "Highlights repaired or dropped while merging",
		}, []string{"reason"}),
	}
}

// RecordAnalysis records a successful analysis.
func (p *Provider) RecordAnalysis(_ context.Context, backend, prediction string, highlights int, duration time.Duration) {
	p.Metrics.AnalysesTotal.WithLabelValues(backend, prediction).Inc()
	p.Metrics.AnalysisDuration.WithLabelValues(backend).Observe(duration.Seconds())
	p.Metrics.HighlightsReturned.Observe(float64(highlights))
}

// RecordFailure records a failed analysis.
func (p *Provider) RecordFailure(_ context.Context, backend, reason string, duration time.Duration) {
	p.Metrics.AnalysisFailures.WithLabelValues(backend, reason).Inc()
	p.Metrics.AnalysisDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordDiagnostic counts one merge diagnostic.
func (p *Provider) RecordDiagnostic(reason string) {
	p.Metrics.Diagnostics.WithLabelValues(reason).Inc()
}

// StartSpan starts a new trace span. The caller must end it.
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
