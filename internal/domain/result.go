// Package domain defines the analysis result contract shared by every
// backend, renderer and outer surface.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Prediction is the binary credibility label.
type Prediction string

const (
	PredictionFake Prediction = "FAKE"
	PredictionReal Prediction = "REAL"
)

// ErrUnknownPrediction is returned for labels other than FAKE and REAL.
var ErrUnknownPrediction = errors.New("unknown prediction")

// ParsePrediction accepts "fake" and "real" in any case.
func ParsePrediction(s string) (Prediction, error) {
	p := Prediction(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrediction, s)
	}
	return p, nil
}

// Valid reports whether p is FAKE or REAL.
func (p Prediction) Valid() bool {
	return p == PredictionFake || p == PredictionReal
}

// UnmarshalJSON rejects anything but an exact FAKE or REAL label.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("prediction: %w", err)
	}
	if !Prediction(s).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPrediction, s)
	}
	*p = Prediction(s)
	return nil
}

// Highlight flags the byte range [Start, End) of the analyzed text with a
// suspicion score. Producers do not clamp Score.
type Highlight struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// AnalysisResult is one classifier verdict. It is immutable once built.
type AnalysisResult struct {
	Prediction Prediction  `json:"prediction"`
	Confidence float64     `json:"confidence"`
	Highlights []Highlight `json:"highlights,omitempty"`
}

// HighlightProblem describes a highlight that does not fit the text.
type HighlightProblem struct {
	Index  int
	Reason string
}

// ErrMalformedResult marks a payload that cannot be shown to a user.
var ErrMalformedResult = errors.New("malformed analysis result")

// Validate rejects results with an unknown label or a non-finite
// confidence. Out-of-range highlights are reported, not rejected: the
// merger repairs or drops them at render time.
func (r *AnalysisResult) Validate(textLen int) ([]HighlightProblem, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedResult)
	}
	if !r.Prediction.Valid() {
		return nil, fmt.Errorf("%w: prediction %q", ErrMalformedResult, r.Prediction)
	}
	if math.IsNaN(r.Confidence) || math.IsInf(r.Confidence, 0) {
		return nil, fmt.Errorf("%w: confidence is not finite", ErrMalformedResult)
	}

	var problems []HighlightProblem
	for i, h := range r.Highlights {
		if reason := h.Problem(textLen); reason != "" {
			problems = append(problems, HighlightProblem{Index: i, Reason: reason})
		}
	}
	return problems, nil
}

// Problem returns why h does not fit a text of textLen bytes, or "".
func (h Highlight) Problem(textLen int) string {
	switch {
	case h.Start < 0:
		return "start before text"
	case h.End > textLen:
		return "end past text"
	case h.Start >= h.End:
		return "empty range"
	case math.IsNaN(h.Score):
		return "score is NaN"
	default:
		return ""
	}
}

// Severity derives the display treatment from the label.
func (r *AnalysisResult) Severity() Severity {
	return SeverityFor(r.Prediction)
}
