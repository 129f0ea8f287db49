// Package analyzer is the boundary between callers and a classification
// backend. It validates input, bounds the single backend call with a
// timeout, checks the payload and turns every failure into
// domain.ErrAnalysisFailed.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/jonesrussell/newscheck/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 10 * time.Second

// Analyzer is a classification backend.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error)
	// Name labels metrics and reports, e.g. "http" or "heuristic".
	Name() string
}

// Report is what callers show: the verdict plus its rendering inputs.
type Report struct {
	ID                uuid.UUID              `json:"id"`
	Result            domain.AnalysisResult  `json:"result"`
	Segments          []highlight.Segment    `json:"segments"`
	Diagnostics       []highlight.Diagnostic `json:"diagnostics,omitempty"`
	Severity          domain.Severity        `json:"severity"`
	Headline          string                 `json:"headline"`
	ConfidencePercent float64                `json:"confidence_percent"`
	Backend           string                 `json:"backend"`
	AnalyzedAt        time.Time              `json:"analyzed_at"`
}

// Config configures a Service.
type Config struct {
	Timeout time.Duration
	Merge   highlight.Options
}

// Service wraps one backend.
type Service struct {
	backend   Analyzer
	cfg       Config
	log       infralogger.Logger
	telemetry *telemetry.Provider
	now       func() time.Time
}

// NewService creates a Service. A zero timeout means DefaultTimeout.
func NewService(backend Analyzer, cfg Config, log infralogger.Logger, tp *telemetry.Provider) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Service{
		backend:   backend,
		cfg:       cfg,
		log:       log,
		telemetry: tp,
		now:       time.Now,
	}
}

// Backend returns the wrapped backend.
func (s *Service) Backend() Analyzer {
	return s.backend
}

// Analyze classifies text and merges the highlights with the configured
// options.
func (s *Service) Analyze(ctx context.Context, text string) (*Report, error) {
	return s.AnalyzeWithOptions(ctx, text, s.cfg.Merge)
}

// AnalyzeWithOptions is Analyze with per-call merge options.
func (s *Service) AnalyzeWithOptions(ctx context.Context, text string, opts highlight.Options) (*Report, error) {
	result, err := s.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.BuildReport(text, result, opts), nil
}

// Classify performs the validated, time-bounded backend call and returns
// the raw verdict.
func (s *Service) Classify(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if err := (domain.AnalysisRequest{Text: text}).Validate(); err != nil {
		return nil, err
	}

	backend := s.backend.Name()
	ctx = infralogger.WithFields(ctx, s.log, infralogger.String(infralogger.FieldBackend, backend))
	log := infralogger.FromContext(ctx, s.log)

	ctx, span := s.telemetry.StartSpan(ctx, "analyzer.classify",
		attribute.String("backend", backend),
		attribute.Int("text_bytes", len(text)),
	)
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	result, err := s.backend.Analyze(callCtx, text)
	if err == nil {
		var problems []domain.HighlightProblem
		problems, err = result.Validate(len(text))
		if err == nil && len(problems) > 0 {
			log.Debug("Backend returned highlights outside the text",
				infralogger.Int("count", len(problems)),
			)
		}
	}
	duration := time.Since(start)

	if err != nil {
		reason := failureReason(callCtx, err)
		s.telemetry.RecordFailure(ctx, backend, reason, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		log.Error("Analysis failed",
			infralogger.String("reason", reason),
			infralogger.Duration("duration", duration),
			infralogger.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrAnalysisFailed, reason, err)
	}

	s.telemetry.RecordAnalysis(ctx, backend, string(result.Prediction), len(result.Highlights), duration)
	span.SetAttributes(
		attribute.String("prediction", string(result.Prediction)),
		attribute.Float64("confidence", result.Confidence),
	)
	log.Info("Analysis completed",
		infralogger.String("prediction", string(result.Prediction)),
		infralogger.Float64("confidence", result.Confidence),
		infralogger.Int("highlights", len(result.Highlights)),
		infralogger.Duration("duration", duration),
	)

	return result, nil
}

// BuildReport merges a verdict onto its text. It performs no I/O and can
// be used for results obtained elsewhere.
func (s *Service) BuildReport(text string, result *domain.AnalysisResult, opts highlight.Options) *Report {
	segments, diagnostics := highlight.MergeWithOptions(text, result.Highlights, opts)
	for _, d := range diagnostics {
		s.telemetry.RecordDiagnostic(d.Reason)
	}

	severity := result.Severity()
	return &Report{
		ID:                uuid.New(),
		Result:            *result,
		Segments:          segments,
		Diagnostics:       diagnostics,
		Severity:          severity,
		Headline:          severity.Headline(),
		ConfidencePercent: domain.ConfidencePercent(result.Confidence),
		Backend:           s.backend.Name(),
		AnalyzedAt:        s.now().UTC(),
	}
}

func failureReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return telemetry.ReasonTimeout
	case errors.Is(err, context.Canceled):
		return telemetry.ReasonCanceled
	case errors.Is(err, domain.ErrMalformedResult), errors.Is(err, domain.ErrUnknownPrediction):
		return telemetry.ReasonMalformed
	default:
		return telemetry.ReasonTransport
	}
}
