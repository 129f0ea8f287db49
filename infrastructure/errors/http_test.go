package errors_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	infraerrors "github.com/jonesrussell/newscheck/infrastructure/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    int
		body    string
		wantNil bool
		wantMsg string
	}{
		{name: "success", code: http.StatusOK, body: `{}`, wantNil: true},
		{name: "json error body", code: http.StatusBadRequest, body: `{"error": "No text provided"}`, wantMsg: "No text provided"},
		{name: "message field", code: http.StatusBadGateway, body: `{"message": "model not loaded"}`, wantMsg: "model not loaded"},
		{name: "json api", code: http.StatusUnprocessableEntity, body: `{"errors":[{"title":"bad","detail":"text"}]}`, wantMsg: "bad: text"},
		{name: "plain body", code: http.StatusInternalServerError, body: "Internal Server Error\n", wantMsg: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := infraerrors.ParseHTTPError(response(tt.code, tt.body))
			if tt.wantNil {
				require.NoError(t, err)
				return
			}

			var httpErr *infraerrors.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.Equal(t, tt.code, httpErr.StatusCode)
		})
	}
}

func TestHTTPError_Temporary(t *testing.T) {
	t.Parallel()

	assert.True(t, (&infraerrors.HTTPError{StatusCode: http.StatusServiceUnavailable}).Temporary())
	assert.True(t, (&infraerrors.HTTPError{StatusCode: http.StatusTooManyRequests}).Temporary())
	assert.False(t, (&infraerrors.HTTPError{StatusCode: http.StatusBadRequest}).Temporary())
}

func TestGetHTTPStatusCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("analyze: %w", &infraerrors.HTTPError{StatusCode: http.StatusBadGateway})
	code, ok := infraerrors.GetHTTPStatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, code)
}
