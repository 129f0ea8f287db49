package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/jonesrussell/newscheck/infrastructure/circuitbreaker"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/analysisclient"
	"github.com/jonesrussell/newscheck/internal/analyzer"
	"github.com/jonesrussell/newscheck/internal/api"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/jonesrussell/newscheck/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	result *domain.AnalysisResult
	err    error
	calls  int
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) Analyze(context.Context, string) (*domain.AnalysisResult, error) {
	b.calls++
	return b.result, b.err
}

func setupRouter(t *testing.T, backend analyzer.Analyzer, jwtSecret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := analyzer.NewService(backend, analyzer.Config{Timeout: time.Second}, infralogger.NewNop(), telemetry.NewProvider())
	handler := api.NewHandler(svc, highlight.Options{}, infralogger.NewNop())

	router := gin.New()
	api.SetupServiceRoutes(router, handler, jwtSecret)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var miracle = &domain.AnalysisResult{
	Prediction: domain.PredictionFake,
	Confidence: 0.9,
	Highlights: []domain.Highlight{{Start: 0, End: 7, Score: 0.8}},
}

func TestLegacyAnalyze(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{result: miracle}
	router := setupRouter(t, backend, "")

	w := do(t, router, http.MethodPost, "/analyze", `{"text":"Miracle cure"}`)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[domain.AnalysisResult](t, w)
	assert.Equal(t, *miracle, got)
}

func TestLegacyAnalyze_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "no body", body: "", want: "No text provided"},
		{name: "missing text", body: `{"article":"x"}`, want: "No text provided"},
		{name: "not json", body: `text=hello`, want: "No text provided"},
		{name: "blank text", body: `{"text":"   "}`, want: "Empty text provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := &stubBackend{result: miracle}
			w := do(t, setupRouter(t, backend, ""), http.MethodPost, "/analyze", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode[api.ErrorResponse](t, w).Error)
			assert.Zero(t, backend.calls)
		})
	}
}

func TestLegacyAnalyze_BackendFailureIsGeneric(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: errors.New("dial tcp 127.0.0.1:5000: connection refused")}
	w := do(t, setupRouter(t, backend, ""), http.MethodPost, "/analyze", `{"text":"hello"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, domain.MsgAnalysisFailed, decode[api.ErrorResponse](t, w).Error)
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestAnalyze_Report(t *testing.T) {
	t.Parallel()

	router := setupRouter(t, &stubBackend{result: miracle}, "")
	w := do(t, router, http.MethodPost, "/api/v1/analyze", `{"text":"Miracle cure"}`)
	require.Equal(t, http.StatusOK, w.Code)

	report := decode[map[string]any](t, w)
	assert.Equal(t, "alert", report["severity"])
	assert.Equal(t, "stub", report["backend"])
	assert.InDelta(t, 90.0, report["confidence_percent"], 1e-9)

	segments, ok := report["segments"].([]any)
	require.True(t, ok)
	require.Len(t, segments, 2)
	first, ok := segments[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Miracle", first["text"])
	assert.Equal(t, "highlighted", first["kind"])
	assert.Equal(t, "highlight-0", first["id"])
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	router := setupRouter(t, &stubBackend{err: errors.New("boom")}, "")

	w := do(t, router, http.MethodPost, "/api/v1/analyze", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.MsgEmptyText, decode[api.ErrorResponse](t, w).Error)

	w = do(t, router, http.MethodPost, "/api/v1/analyze", `{"text":"hello"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, domain.MsgAnalysisFailed, decode[api.ErrorResponse](t, w).Error)

	w = do(t, router, http.MethodPost, "/api/v1/analyze", `{"text":"hello","overlap":"merge"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRender(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	router := setupRouter(t, backend, "")

	body := `{"text":"<b>bold</b> claim","result":{"prediction":"FAKE","confidence":0.7,"highlights":[{"start":12,"end":17,"score":0.9},{"start":-3,"end":2,"score":0.1}]},"format":"html"}`
	w := do(t, router, http.MethodPost, "/api/v1/render", body)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[api.RenderResponse](t, w)
	assert.Equal(t, "html", resp.Format)
	assert.Contains(t, resp.HTML, `<span class="bg-red-90 rounded px-0.5" title="Suspicion score: 90%">claim</span>`)
	assert.Contains(t, resp.HTML, "&lt;/b&gt;")
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, highlight.ReasonClamped, resp.Diagnostics[0].Reason)
	assert.Zero(t, backend.calls)

	w = do(t, router, http.MethodPost, "/api/v1/render", `{"text":"abc","result":{"prediction":"REAL","confidence":0.7}}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[api.RenderResponse](t, w)
	assert.Equal(t, "segments", resp.Format)
	require.Len(t, resp.Segments, 1)
	assert.Equal(t, "normal-end", resp.Segments[0].ID)

	w = do(t, router, http.MethodPost, "/api/v1/render", `{"text":"abc","result":{"prediction":"REAL","confidence":0.7},"format":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/render", `{"text":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/render", `{"text":"abc","result":{"prediction":"MAYBE","confidence":0.7}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/render", `{"text":"abc","result":{"confidence":0.7,"highlights":[{"start":0,"end":1,"score":0.5}]}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[api.ErrorResponse](t, w).Error, domain.ErrMalformedResult.Error())
}

func TestSamples(t *testing.T) {
	t.Parallel()

	router := setupRouter(t, &stubBackend{}, "")

	w := do(t, router, http.MethodGet, "/api/v1/samples", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[api.SamplesResponse](t, w)
	assert.Equal(t, 3, list.Total)

	w = do(t, router, http.MethodGet, "/api/v1/samples/SAMPLE2", "")
	require.Equal(t, http.StatusOK, w.Code)
	sample := decode[domain.Sample](t, w)
	assert.True(t, sample.IsFake)

	w = do(t, router, http.MethodGet, "/api/v1/samples/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBackendHealth_NotApplicable(t *testing.T) {
	t.Parallel()

	w := do(t, setupRouter(t, &stubBackend{}, ""), http.MethodGet, "/api/v1/backend/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[api.BackendHealthResponse](t, w)
	assert.Equal(t, "stub", resp.Backend)
	assert.Equal(t, "not_applicable", resp.Status)
	assert.Nil(t, resp.Details)
}

func TestBackendHealth_HTTPBackend(t *testing.T) {
	t.Parallel()

	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","model_version":"1.0"}`))
	}))
	defer model.Close()

	client := analysisclient.NewClient(analysisclient.Config{BaseURL: model.URL, Breaker: circuitbreaker.DefaultConfig()}, infralogger.NewNop())
	w := do(t, setupRouter(t, client, ""), http.MethodGet, "/api/v1/backend/health", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[api.BackendHealthResponse](t, w)
	assert.Equal(t, "http", resp.Backend)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "closed", resp.Breaker)
	require.NotNil(t, resp.Details)
	assert.True(t, resp.Details.Reachable)
}

func TestBackendHealth_Unreachable(t *testing.T) {
	t.Parallel()

	model := httptest.NewServer(http.NotFoundHandler())
	url := model.URL
	model.Close()

	client := analysisclient.NewClient(analysisclient.Config{BaseURL: url, Breaker: circuitbreaker.DefaultConfig()}, infralogger.NewNop())
	w := do(t, setupRouter(t, client, ""), http.MethodGet, "/api/v1/backend/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unreachable", decode[api.BackendHealthResponse](t, w).Status)
}

func TestJWTProtectsV1Only(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	router := setupRouter(t, &stubBackend{result: miracle}, secret)

	w := do(t, router, http.MethodGet, "/api/v1/samples", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/analyze", `{"text":"Miracle"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/samples", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
