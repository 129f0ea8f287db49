package bootstrap_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/bootstrap"
	"github.com/jonesrussell/newscheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := bootstrap.LoadConfigFrom(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)
	return cfg
}

func TestNewBackend(t *testing.T) {
	cfg := defaultConfig(t)
	log := infralogger.NewNop()

	for _, name := range []string{config.BackendHeuristic, config.BackendHTTP} {
		cfg.Analyzer.Backend = name
		backend, err := bootstrap.NewBackend(cfg, log)
		require.NoError(t, err)
		assert.Equal(t, name, backend.Name())
	}

	cfg.Analyzer.Backend = config.BackendAnthropic
	cfg.Analyzer.Anthropic.APIKey = "key"
	backend, err := bootstrap.NewBackend(cfg, log)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", backend.Name())

	cfg.Analyzer.Backend = "oracle"
	_, err = bootstrap.NewBackend(cfg, log)
	require.Error(t, err)
}

func TestApp_HTTPServerRoutes(t *testing.T) {
	cfg := defaultConfig(t)
	app, err := bootstrap.NewApp(cfg, infralogger.NewNop())
	require.NoError(t, err)

	router := app.NewHTTPServer().Router()

	for _, path := range []string{"/health", "/metrics", "/api/v1/samples"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestApp_HTTPServerListenAddressAndMemoryCheck(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 5099

	app, err := bootstrap.NewApp(cfg, infralogger.NewNop())
	require.NoError(t, err)

	srv := app.NewHTTPServer()
	assert.Equal(t, "127.0.0.1:5099", srv.Addr())

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Checks map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Checks["memory"].Status)
}
