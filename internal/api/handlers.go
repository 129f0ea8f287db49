package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/newscheck/infrastructure/circuitbreaker"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/analyzer"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/jonesrussell/newscheck/internal/mltransport"
	"github.com/jonesrussell/newscheck/internal/render"
)

const backendHealthTimeout = 5 * time.Second

// HealthProber is implemented by backends that can be pinged.
type HealthProber interface {
	Health(ctx context.Context) (mltransport.Health, error)
}

// BreakerReporter is implemented by backends behind a circuit breaker.
type BreakerReporter interface {
	BreakerState() circuitbreaker.State
}

// Handler handles HTTP requests for the newscheck API.
type Handler struct {
	service   *analyzer.Service
	mergeOpts highlight.Options
	logger    infralogger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(service *analyzer.Service, mergeOpts highlight.Options, logger infralogger.Logger) *Handler {
	return &Handler{
		service:   service,
		mergeOpts: mergeOpts,
		logger:    logger,
	}
}

// requestLogger prefers the request-scoped logger set by the middleware.
func (h *Handler) requestLogger(c *gin.Context) infralogger.Logger {
	return infralogger.FromContext(c.Request.Context(), h.logger)
}

// LegacyAnalyze handles POST /analyze with the model server's contract:
// the raw AnalysisResult on success, {"error": ...} otherwise.
func (h *Handler) LegacyAnalyze(c *gin.Context) {
	var req LegacyAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNoText})
		return
	}

	result, err := h.service.Classify(c.Request.Context(), *req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgEmptyText})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: domain.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.requestLogger(c).Debug("Invalid analyze request", infralogger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.MsgEmptyText})
		return
	}

	opts, ok := h.mergeOptions(c, req.Overlap, req.Malformed)
	if !ok {
		return
	}

	report, err := h.service.AnalyzeWithOptions(c.Request.Context(), req.Text, opts)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrEmptyText) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: domain.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Render handles POST /api/v1/render. The backend is not called.
func (h *Handler) Render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid render request: " + err.Error()})
		return
	}

	if _, err := req.Result.Validate(len(req.Text)); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid render request: " + err.Error()})
		return
	}

	opts, ok := h.mergeOptions(c, req.Overlap, req.Malformed)
	if !ok {
		return
	}

	segments, diagnostics := highlight.MergeWithOptions(req.Text, req.Result.Highlights, opts)
	resp := RenderResponse{Format: formatSegments, Diagnostics: diagnostics}

	switch req.Format {
	case "", formatSegments:
		resp.Segments = segments
	case formatHTML:
		fragment, err := render.HTML(segments)
		if err != nil {
			h.requestLogger(c).Error("Render HTML failed", infralogger.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: domain.MsgAnalysisFailed})
			return
		}
		resp.Format = formatHTML
		resp.HTML = string(fragment)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "format must be one of: segments, html"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// mergeOptions falls back to the configured policy for each empty field.
func (h *Handler) mergeOptions(c *gin.Context, overlap, malformed string) (highlight.Options, bool) {
	opts := h.mergeOpts
	if overlap != "" {
		p, err := highlight.ParseOverlapPolicy(overlap)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return opts, false
		}
		opts.Overlap = p
	}
	if malformed != "" {
		p, err := highlight.ParseMalformedPolicy(malformed)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return opts, false
		}
		opts.Malformed = p
	}
	return opts, true
}

// ListSamples handles GET /api/v1/samples.
func (h *Handler) ListSamples(c *gin.Context) {
	samples := domain.Samples()
	c.JSON(http.StatusOK, SamplesResponse{Samples: samples, Total: len(samples)})
}

// GetSample handles GET /api/v1/samples/:id.
func (h *Handler) GetSample(c *gin.Context) {
	sample, ok := domain.SampleByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "sample not found"})
		return
	}
	c.JSON(http.StatusOK, sample)
}

// BackendHealth handles GET /api/v1/backend/health.
func (h *Handler) BackendHealth(c *gin.Context) {
	backend := h.service.Backend()
	resp := BackendHealthResponse{Backend: backend.Name(), Status: backendStatusNotApplicable}

	if br, ok := backend.(BreakerReporter); ok {
		resp.Breaker = br.BreakerState().String()
	}

	prober, ok := backend.(HealthProber)
	if !ok {
		c.JSON(http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), backendHealthTimeout)
	defer cancel()

	health, err := prober.Health(ctx)
	resp.Details = &health
	if err != nil {
		h.requestLogger(c).Warn("Backend health check failed",
			infralogger.String("backend", resp.Backend),
			infralogger.Error(err),
		)
		resp.Status = backendStatusUnreachable
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	resp.Status = backendStatusHealthy
	c.JSON(http.StatusOK, resp)
}
