// Package errors decodes error responses from HTTP analysis backends.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MinErrorStatusCode is the first status treated as an error.
const MinErrorStatusCode = 400

// maxErrorBody caps how much of an error body is kept.
const maxErrorBody = 4 << 10

// HTTPError is a non-2xx response from a backend.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// Temporary reports whether the status suggests the backend may recover.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// ParseHTTPError returns nil for non-error statuses. Otherwise it reads the
// body and extracts a message from {"error": ...}, {"message": ...} or a
// JSON:API errors array, falling back to the raw body.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}

	body := string(bodyBytes)
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
		Message:    extractMessage(bodyBytes, body),
	}
}

func extractMessage(raw []byte, fallback string) string {
	var jsonErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Errors  []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}

	if json.Unmarshal(raw, &jsonErr) != nil {
		return strings.TrimSpace(fallback)
	}

	switch {
	case jsonErr.Error != "":
		return jsonErr.Error
	case jsonErr.Message != "":
		return jsonErr.Message
	case len(jsonErr.Errors) > 0:
		details := make([]string, len(jsonErr.Errors))
		for i, e := range jsonErr.Errors {
			details[i] = e.Title
			if e.Detail != "" {
				details[i] = e.Title + ": " + e.Detail
			}
		}
		return strings.Join(details, "; ")
	default:
		return strings.TrimSpace(fallback)
	}
}

// GetHTTPStatusCode extracts the status code from an error chain.
func GetHTTPStatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
