// Package analysisclient is the analyzer backend for a remote
// classification service such as the Python model server.
package analysisclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/newscheck/infrastructure/circuitbreaker"
	infraerrors "github.com/jonesrussell/newscheck/infrastructure/errors"
	infrahttp "github.com/jonesrussell/newscheck/infrastructure/http"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/mltransport"
	"golang.org/x/time/rate"
)

// Name is the backend name used in metrics and reports.
const Name = "http"

// ErrUnavailable indicates the classification service is unreachable.
var ErrUnavailable = errors.New("classification service unavailable")

// Config configures a Client.
type Config struct {
	// BaseURL is the service root; /analyze and /health are appended.
	BaseURL string
	// RPS limits outbound requests. Zero or less disables limiting.
	RPS   float64
	Burst int
	// HTTPTimeout is a transport backstop; the analyzer deadline is
	// normally shorter.
	HTTPTimeout time.Duration
	Breaker     circuitbreaker.Config
}

// Client calls the classification service through a rate limiter and a
// circuit breaker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker
	limiter    *rate.Limiter
	log        infralogger.Logger
}

// NewClient creates a new classification service client.
func NewClient(cfg Config, log infralogger.Logger) *Client {
	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
		if burst <= 0 {
			burst = max(1, int(cfg.RPS))
		}
	}

	breakerCfg := cfg.Breaker
	breakerCfg.OnStateChange = func(from, to circuitbreaker.State) {
		log.Warn("Classification service circuit changed state",
			infralogger.String("from", from.String()),
			infralogger.String("to", to.String()),
		)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.HTTPTimeout}),
		breaker:    circuitbreaker.New(breakerCfg),
		limiter:    rate.NewLimiter(limit, burst),
		log:        log,
	}
}

// Name implements analyzer.Analyzer.
func (c *Client) Name() string {
	return Name
}

// Analyze posts text to /analyze. A single attempt is made.
func (c *Client) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var (
		result  domain.AnalysisResult
		callErr error
	)
	breakerErr := c.breaker.Execute(ctx, func() error {
		latencyMs, size, err := mltransport.DoAnalyze(ctx, c.httpClient, c.baseURL, &mltransport.AnalyzeRequest{Text: text}, &result)
		callErr = err
		if err == nil {
			c.log.Debug("Classification service responded",
				infralogger.Int64("latency_ms", latencyMs),
				infralogger.Int("response_bytes", size),
			)
		}
		if countsAgainstBreaker(err) {
			return err
		}
		return nil
	})

	switch {
	case errors.Is(breakerErr, circuitbreaker.ErrCircuitOpen):
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, breakerErr)
	case callErr != nil:
		return nil, fmt.Errorf("analyze: %w", callErr)
	default:
		return &result, nil
	}
}

// countsAgainstBreaker reports whether err says the service itself is
// unhealthy. Client-side rejections (4xx) do not.
func countsAgainstBreaker(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *infraerrors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}
	return true
}

// Health calls GET /health. It bypasses the breaker so a recovering
// service is visible.
func (c *Client) Health(ctx context.Context) (mltransport.Health, error) {
	health, err := mltransport.DoHealth(ctx, c.httpClient, c.baseURL)
	if err != nil && !health.Reachable {
		return health, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return health, err
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}
