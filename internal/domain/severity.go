package domain

import (
	"fmt"
	"math"
)

// Severity is how a verdict is presented.
type Severity string

const (
	// SeverityAlert is the negative treatment used for FAKE.
	SeverityAlert Severity = "alert"
	// SeverityConfirmed is the positive treatment used for REAL.
	SeverityConfirmed Severity = "confirmed"
	SeverityUnknown   Severity = "unknown"
)

// SeverityFor maps FAKE to alert and REAL to confirmed.
func SeverityFor(p Prediction) Severity {
	switch p {
	case PredictionFake:
		return SeverityAlert
	case PredictionReal:
		return SeverityConfirmed
	default:
		return SeverityUnknown
	}
}

// Headline is the sentence shown above a result.
func (s Severity) Headline() string {
	switch s {
	case SeverityAlert:
		return "This content appears to be fake"
	case SeverityConfirmed:
		return "This content appears to be real"
	default:
		return "This content could not be assessed"
	}
}

// ConfidencePercent converts a 0..1 confidence to a percentage with one
// decimal place. Values outside 0..1 are converted unchanged.
func ConfidencePercent(c float64) float64 {
	return math.Round(c*1000) / 10
}

// FormatConfidence renders c as e.g. "87.3%".
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.1f%%", ConfidencePercent(c))
}

// ClampConfidence bounds c to [0,1] for meters and bars. NaN becomes 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	return math.Min(math.Max(c, 0), 1)
}
