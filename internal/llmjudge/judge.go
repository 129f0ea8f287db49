// Package llmjudge is an analyzer backend that asks a Claude model to
// classify an article and point at its suspicious passages.
package llmjudge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/domain"
)

// Name is the backend name used in metrics and reports.
const Name = "anthropic"

const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 1024
)

var (
	// ErrNoAPIKey is returned by New when no key is configured.
	ErrNoAPIKey = errors.New("anthropic api key is required")
	// ErrEmptyResponse means the model returned no text block.
	ErrEmptyResponse = errors.New("model returned no text")
)

const systemPrompt = `You are a news credibility analyst. Classify the article the user sends as FAKE or REAL.
Reply with a single JSON object and nothing else:
{"prediction": "FAKE" | "REAL", "confidence": <number between 0 and 1>, "highlights": [{"start": <int>, "end": <int>, "score": <number between 0 and 1>}]}
Highlights mark suspicious passages. start and end are UTF-8 byte offsets into the article, end exclusive.
Return an empty highlights array when nothing is suspicious.`

// Config configures a Judge.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint.
	BaseURL    string
	HTTPClient *http.Client
}

// Judge implements analyzer.Analyzer.
type Judge struct {
	messages  anthropic.MessageService
	model     string
	maxTokens int64
	log       infralogger.Logger
}

// New creates a Judge. The SDK's own retries are disabled; the analyzer
// makes exactly one attempt per submission.
func New(cfg Config, log infralogger.Logger) (*Judge, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Judge{
		messages:  anthropic.NewMessageService(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       log,
	}, nil
}

// Name implements analyzer.Analyzer.
func (j *Judge) Name() string {
	return Name
}

// Analyze sends text to the model and decodes its verdict.
func (j *Judge) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	start := time.Now()

	msg, err := j.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(j.model),
		MaxTokens: j.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("messages.new: %w", err)
	}

	var reply strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}

	infralogger.FromContext(ctx, j.log).Debug("Model responded",
		infralogger.String("model", string(msg.Model)),
		infralogger.String("stop_reason", string(msg.StopReason)),
		infralogger.Int64("input_tokens", msg.Usage.InputTokens),
		infralogger.Int64("output_tokens", msg.Usage.OutputTokens),
		infralogger.Duration("latency", time.Since(start)),
	)

	return ParseVerdict(reply.String())
}

// ParseVerdict decodes a model reply into an AnalysisResult. Surrounding
// prose and markdown code fences are ignored.
func ParseVerdict(reply string) (*domain.AnalysisResult, error) {
	body := extractJSON(reply)
	if body == "" {
		return nil, ErrEmptyResponse
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}
	return &result, nil
}

// extractJSON returns the outermost {...} object in s.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```"); ok {
		// drop the info string, e.g. ```json
		if nl := strings.IndexByte(after, '\n'); nl >= 0 {
			after = after[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(after), "```")
	}

	open := strings.IndexByte(s, '{')
	closing := strings.LastIndexByte(s, '}')
	if open < 0 || closing < open {
		return ""
	}
	return s[open : closing+1]
}
