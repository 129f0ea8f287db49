// Package config holds the newscheck configuration.
package config

import (
	"fmt"
	"strconv"
	"time"

	infraconfig "github.com/jonesrussell/newscheck/infrastructure/config"
	"github.com/jonesrussell/newscheck/internal/highlight"
)

// Backend names.
const (
	BackendHTTP      = "http"
	BackendHeuristic = "heuristic"
	BackendAnthropic = "anthropic"
)

// Default configuration values.
const (
	defaultServiceName      = "newscheck"
	defaultServiceVersion   = "1.0.0"
	defaultBackend          = BackendHeuristic
	defaultAnalyzerTimeout  = 10 * time.Second
	defaultModelServiceURL  = "http://localhost:5001"
	defaultHTTPTimeout      = 30 * time.Second
	defaultHTTPRPS          = 10
	maxHTTPRPS              = 1000
	defaultBreakerFailures  = 5
	defaultBreakerSuccesses = 2
	defaultBreakerTimeout   = 30 * time.Second
	defaultRandomRate       = 0.05
	defaultAnthropicModel   = "claude-sonnet-4-5"
	defaultAnthropicTokens  = 1024
	defaultCORSOrigin       = "*"
)

// Config holds all configuration for newscheck.
type Config struct {
	Service  ServiceConfig             `yaml:"service"`
	Server   infraconfig.ServerConfig  `yaml:"server"`
	Logging  infraconfig.LoggingConfig `yaml:"logging"`
	Analyzer AnalyzerConfig            `yaml:"analyzer"`
	Render   RenderConfig              `yaml:"render"`
	Auth     AuthConfig                `yaml:"auth"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string   `yaml:"name"`
	Version     string   `env:"APP_VERSION"  yaml:"version"`
	Debug       bool     `env:"APP_DEBUG"    yaml:"debug"`
	CORSOrigins []string `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// AnalyzerConfig selects and configures the classification backend.
type AnalyzerConfig struct {
	Backend   string          `env:"NEWSCHECK_BACKEND"          yaml:"backend"`
	Timeout   time.Duration   `env:"NEWSCHECK_ANALYZER_TIMEOUT" yaml:"timeout"`
	HTTP      HTTPConfig      `yaml:"http"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// HTTPConfig configures the remote model service backend.
type HTTPConfig struct {
	URL     string        `env:"MODEL_SERVICE_URL" yaml:"url"`
	RPS     float64       `env:"MODEL_SERVICE_RPS" yaml:"rps"`
	Burst   int           `yaml:"burst"`
	Timeout time.Duration `yaml:"timeout"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig configures the circuit breaker around the model service.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	SuccessThreshold int           `yaml:"success_threshold"`
	Timeout          time.Duration `yaml:"timeout"`
}

// HeuristicConfig configures the keyword heuristic backend.
type HeuristicConfig struct {
	Seed uint64 `env:"HEURISTIC_SEED" yaml:"seed"`
	// RandomHighlightRate is the share of long words flagged at random.
	// A negative value disables random highlights.
	RandomHighlightRate float64       `yaml:"random_highlight_rate"`
	Latency             time.Duration `yaml:"latency"`
	Phrases             []string      `yaml:"phrases"`
}

// AnthropicConfig configures the Claude backend.
type AnthropicConfig struct {
	APIKey    string `env:"ANTHROPIC_API_KEY"  yaml:"api_key"` //nolint:gosec // G117: API credential config
	Model     string `env:"ANTHROPIC_MODEL"    yaml:"model"`
	MaxTokens int64  `yaml:"max_tokens"`
	BaseURL   string `env:"ANTHROPIC_BASE_URL" yaml:"base_url"`
}

// RenderConfig holds highlight merge and output settings.
type RenderConfig struct {
	Overlap   string `yaml:"overlap"`
	Malformed string `yaml:"malformed"`
	Color     bool   `env:"NEWSCHECK_COLOR" yaml:"color"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// MergeOptions parses the render policies.
func (r RenderConfig) MergeOptions() (highlight.Options, error) {
	return highlight.ParseOptions(r.Overlap, r.Malformed)
}

// Load loads configuration from the specified path. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, SetDefaults)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	cfg.Server.SetDefaults()
	cfg.Logging.SetDefaults()
	setAnalyzerDefaults(&cfg.Analyzer)
	setRenderDefaults(&cfg.Render)
	// Auth is opt-in: no secret means /api/v1 is public.
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{defaultCORSOrigin}
	}
}

func setAnalyzerDefaults(a *AnalyzerConfig) {
	if a.Backend == "" {
		a.Backend = defaultBackend
	}
	if a.Timeout == 0 {
		a.Timeout = defaultAnalyzerTimeout
	}

	if a.HTTP.URL == "" {
		a.HTTP.URL = defaultModelServiceURL
	}
	if a.HTTP.RPS == 0 {
		a.HTTP.RPS = defaultHTTPRPS
	}
	if a.HTTP.Timeout == 0 {
		a.HTTP.Timeout = defaultHTTPTimeout
	}
	if a.HTTP.Breaker.FailureThreshold == 0 {
		a.HTTP.Breaker.FailureThreshold = defaultBreakerFailures
	}
	if a.HTTP.Breaker.SuccessThreshold == 0 {
		a.HTTP.Breaker.SuccessThreshold = defaultBreakerSuccesses
	}
	if a.HTTP.Breaker.Timeout == 0 {
		a.HTTP.Breaker.Timeout = defaultBreakerTimeout
	}

	if a.Heuristic.RandomHighlightRate == 0 {
		a.Heuristic.RandomHighlightRate = defaultRandomRate
	}

	if a.Anthropic.Model == "" {
		a.Anthropic.Model = defaultAnthropicModel
	}
	if a.Anthropic.MaxTokens == 0 {
		a.Anthropic.MaxTokens = defaultAnthropicTokens
	}
}

func setRenderDefaults(r *RenderConfig) {
	if r.Overlap == "" {
		r.Overlap = highlight.PolicyClip
	}
	if r.Malformed == "" {
		r.Malformed = highlight.PolicyClamp
	}
}

// Validate reports the first problem found in cfg.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Analyzer.Validate(); err != nil {
		return err
	}
	if err := c.validateModelURL(); err != nil {
		return err
	}
	if _, err := c.Render.MergeOptions(); err != nil {
		return &infraconfig.ValidationError{Field: "render", Message: err.Error()}
	}
	return nil
}

// Validate validates the analyzer section.
func (a *AnalyzerConfig) Validate() error {
	if err := infraconfig.ValidateOneOf("analyzer.backend", a.Backend,
		BackendHTTP, BackendHeuristic, BackendAnthropic); err != nil {
		return err
	}
	if a.Timeout < 0 {
		return &infraconfig.ValidationError{Field: "analyzer.timeout", Message: "must not be negative"}
	}
	// Negative rates disable random highlights.
	if rate := a.Heuristic.RandomHighlightRate; rate >= 0 {
		if err := infraconfig.ValidateRange("analyzer.heuristic.random_highlight_rate", rate, 0, 1); err != nil {
			return err
		}
	}

	switch a.Backend {
	case BackendHTTP:
		if err := infraconfig.ValidateRequired("analyzer.http.url", a.HTTP.URL); err != nil {
			return err
		}
		if _, err := infraconfig.ValidateURL("analyzer.http.url", a.HTTP.URL); err != nil {
			return err
		}
		return infraconfig.ValidateRange("analyzer.http.rps", a.HTTP.RPS, 0, maxHTTPRPS)
	case BackendAnthropic:
		return infraconfig.ValidateRequired("analyzer.anthropic.api_key", a.Anthropic.APIKey)
	default:
		return nil
	}
}

// validateModelURL rejects an http backend that points back at this
// server, which would make every analysis call itself.
func (c *Config) validateModelURL() error {
	if c.Analyzer.Backend != BackendHTTP {
		return nil
	}
	u, err := infraconfig.ValidateURL("analyzer.http.url", c.Analyzer.HTTP.URL)
	if err != nil {
		return err
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	if port != strconv.Itoa(c.Server.Port) {
		return nil
	}

	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0", c.Server.Host:
		return &infraconfig.ValidationError{
			Field:   "analyzer.http.url",
			Message: "points at this server; the model service needs its own address",
		}
	}
	return nil
}
