// Package mltransport speaks the classification service's HTTP protocol:
// POST /analyze and GET /health.
package mltransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	infraerrors "github.com/jonesrussell/newscheck/infrastructure/errors"
)

// maxResponseBytes caps a decoded verdict.
const maxResponseBytes = 4 << 20

// AnalyzeRequest is the request body for POST /analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// healthResponse is the JSON shape returned by GET /health (model_version optional).
type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// Health is the outcome of GET /health.
type Health struct {
	Reachable    bool   `json:"reachable"`
	LatencyMs    int64  `json:"latency_ms"`
	ModelVersion string `json:"model_version,omitempty"`
}

// DoAnalyze sends POST /analyze to baseURL and decodes the body into
// respPtr. It returns the latency in milliseconds and the response size.
// Non-2xx responses become *infraerrors.HTTPError.
func DoAnalyze(ctx context.Context, client *http.Client, baseURL string, req *AnalyzeRequest, respPtr any) (latencyMs int64, sizeBytes int, err error) {
	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return 0, 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return time.Since(start).Milliseconds(), 0, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return time.Since(start).Milliseconds(), 0, httpErr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	latencyMs = time.Since(start).Milliseconds()
	if err != nil {
		return latencyMs, len(raw), fmt.Errorf("read response: %w", err)
	}

	if decodeErr := json.Unmarshal(raw, respPtr); decodeErr != nil {
		return latencyMs, len(raw), fmt.Errorf("decode response: %w", decodeErr)
	}

	return latencyMs, len(raw), nil
}

// DoHealth calls GET /health at baseURL.
func DoHealth(ctx context.Context, client *http.Client, baseURL string) (Health, error) {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", http.NoBody)
	if err != nil {
		return Health{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(httpReq)
	health := Health{LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		return health, fmt.Errorf("service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return health, fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}

	health.Reachable = true
	var hr healthResponse
	if json.NewDecoder(resp.Body).Decode(&hr) == nil {
		health.ModelVersion = hr.ModelVersion
	}
	return health, nil
}
