package api

import (
	"github.com/gin-gonic/gin"
	infragin "github.com/jonesrussell/newscheck/infrastructure/gin"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/config"
	"github.com/prometheus/client_golang/prometheus"
)

// ServerDeps are the collaborators of the HTTP server beyond the handler.
type ServerDeps struct {
	Logger infralogger.Logger
	// Gatherer is served on /metrics when set.
	Gatherer prometheus.Gatherer
	// BackendPing reports the analysis backend on /health when set.
	BackendPing func() error
}

// NewServer creates the HTTP server using the infrastructure gin package.
func NewServer(handler *Handler, cfg *config.Config, deps ServerDeps) *infragin.Server {
	serverCfg := infragin.NewConfig(cfg.Service.Name, cfg.Server.Port)
	serverCfg.Addr = cfg.Server.Address()

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Server.Port).
		WithConfig(serverCfg).
		WithLogger(deps.Logger).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout).
		WithHealthCheck("memory", infragin.MemoryHealthChecker(cfg.Server.MemoryLimitMB)).
		WithRoutes(func(router *gin.Engine) {
			SetupServiceRoutes(router, handler, cfg.Auth.JWTSecret)
		})

	if deps.Gatherer != nil {
		builder = builder.WithMetrics(deps.Gatherer)
	}
	if deps.BackendPing != nil {
		builder = builder.WithBackendHealthCheck(handler.service.Backend().Name(), deps.BackendPing)
	}

	return builder.Build()
}

// SetupServiceRoutes configures service-specific routes. Health and metrics
// routes are added by the infrastructure gin package.
func SetupServiceRoutes(router *gin.Engine, handler *Handler, jwtSecret string) {
	// Same contract as the Python model server; kept public for the web form.
	router.POST("/analyze", handler.LegacyAnalyze)

	v1 := infragin.ProtectedGroup(router, "/api/v1", jwtSecret)

	v1.POST("/analyze", handler.Analyze) // POST /api/v1/analyze
	v1.POST("/render", handler.Render)   // POST /api/v1/render

	samples := v1.Group("/samples")
	samples.GET("", handler.ListSamples)   // GET /api/v1/samples
	samples.GET("/:id", handler.GetSample) // GET /api/v1/samples/:id

	v1.GET("/backend/health", handler.BackendHealth) // GET /api/v1/backend/health
}
