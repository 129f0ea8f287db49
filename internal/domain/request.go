package domain

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyText means there was nothing to analyze. No request is made.
	ErrEmptyText = errors.New("empty text")
	// ErrAnalysisFailed covers transport errors, timeouts and malformed
	// payloads. The underlying cause is logged, never shown.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// User-facing messages. Nothing else is ever shown to the end user.
const (
	MsgEmptyText      = "Please enter some text to analyze."
	MsgAnalysisFailed = "An error occurred during analysis. Please try again."
)

// AnalysisRequest is the body sent to a classifier.
type AnalysisRequest struct {
	Text string `json:"text"`
}

// Validate rejects text that is empty after trimming whitespace.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// UserMessage maps any error to one of the two user-facing messages.
func UserMessage(err error) string {
	if errors.Is(err, ErrEmptyText) {
		return MsgEmptyText
	}
	return MsgAnalysisFailed
}
