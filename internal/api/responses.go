package api

import (
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/jonesrussell/newscheck/internal/mltransport"
)

// Error messages of the legacy /analyze endpoint.
const (
	msgNoText    = "No text provided"
	msgEmptyText = "Empty text provided"
)

// Render formats.
const (
	formatSegments = "segments"
	formatHTML     = "html"
)

// LegacyAnalyzeRequest is the body of POST /analyze.
type LegacyAnalyzeRequest struct {
	Text *string `json:"text"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
	// Overlap and Malformed override the configured merge policies.
	Overlap   string `json:"overlap,omitempty"`
	Malformed string `json:"malformed,omitempty"`
}

// RenderRequest merges a result obtained elsewhere onto its text.
type RenderRequest struct {
	Text      string                 `json:"text"`
	Result    *domain.AnalysisResult `json:"result"    binding:"required"`
	Format    string                 `json:"format"`
	Overlap   string                 `json:"overlap,omitempty"`
	Malformed string                 `json:"malformed,omitempty"`
}

// RenderResponse carries segments or an HTML fragment.
type RenderResponse struct {
	Format      string                 `json:"format"`
	Segments    []highlight.Segment    `json:"segments,omitempty"`
	HTML        string                 `json:"html,omitempty"`
	Diagnostics []highlight.Diagnostic `json:"diagnostics,omitempty"`
}

// SamplesResponse lists the built-in samples.
type SamplesResponse struct {
	Samples []domain.Sample `json:"samples"`
	Total   int             `json:"total"`
}

// BackendHealthResponse reports the analysis backend.
type BackendHealthResponse struct {
	Backend string              `json:"backend"`
	Status  string              `json:"status"`
	Breaker string              `json:"breaker,omitempty"`
	Details *mltransport.Health `json:"details,omitempty"`
}

// Backend health statuses.
const (
	backendStatusHealthy       = "healthy"
	backendStatusUnreachable   = "unreachable"
	backendStatusNotApplicable = "not_applicable"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
