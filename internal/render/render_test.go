package render_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jonesrussell/newscheck/internal/analyzer"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/jonesrussell/newscheck/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segments(text string, hs ...domain.Highlight) []highlight.Segment {
	return highlight.Merge(text, hs)
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  render.Band
	}{
		{-1, render.BandLow},
		{0.3, render.BandLow},
		{0.34, render.BandLow},
		{0.4, render.BandMedium},
		{0.6, render.BandMedium},
		{0.7, render.BandHigh},
		{50, render.BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, render.BandFor(tt.score), "score %v", tt.score)
	}
}

func TestTerminal_NoColor(t *testing.T) {
	t.Parallel()

	segs := segments("a secret cure", domain.Highlight{Start: 2, End: 8, Score: 0.9})

	var buf bytes.Buffer
	require.NoError(t, render.Terminal{NoColor: true}.Render(&buf, segs))
	assert.Equal(t, "a [[secret]] cure", buf.String())
}

//nolint:paralleltest // toggles go-pretty's global colour switch
func TestTerminal_Color(t *testing.T) {
	text.EnableColors()
	defer text.DisableColors()

	segs := segments("a secret cure", domain.Highlight{Start: 2, End: 8, Score: 0.9})
	out := render.Terminal{}.String(segs)

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "secret")
	assert.True(t, strings.HasPrefix(out, "a "))
	assert.True(t, strings.HasSuffix(out, " cure"))
}

func TestHTML_Spans(t *testing.T) {
	t.Parallel()

	segs := segments("hello world", domain.Highlight{Start: 6, End: 11, Score: 0.456})
	out, err := render.HTML(segs)
	require.NoError(t, err)

	assert.Equal(t,
		`<span>hello </span><span class="bg-red-50 rounded px-0.5" title="Suspicion score: 46%">world</span>`,
		string(out))
}

func TestHTML_EscapesText(t *testing.T) {
	t.Parallel()

	input := `<script>alert("x")</script> & more`
	segs := segments(input, domain.Highlight{Start: 0, End: 8, Score: 0.2})

	var buf bytes.Buffer
	require.NoError(t, render.WriteHTML(&buf, segs))

	out := buf.String()
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&amp; more")
	assert.Contains(t, out, `class="bg-red-20 rounded px-0.5"`)
}

func TestHTML_Empty(t *testing.T) {
	t.Parallel()

	out, err := render.HTML(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	text := "miracle cure"
	result := domain.AnalysisResult{
		Prediction: domain.PredictionFake,
		Confidence: 0.8734,
		Highlights: []domain.Highlight{{Start: 0, End: 7, Score: 0.9}},
	}
	report := &analyzer.Report{
		ID:                uuid.New(),
		Result:            result,
		Segments:          highlight.Merge(text, result.Highlights),
		Severity:          domain.SeverityAlert,
		Headline:          domain.SeverityAlert.Headline(),
		ConfidencePercent: 87.3,
		Backend:           "heuristic",
		AnalyzedAt:        time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	render.Summary(&buf, report)
	out := buf.String()

	for _, want := range []string{"FAKE", "87.3%", "alert", "2024-03-01 12:30:00 UTC", "heuristic", "Highlights", domain.SeverityAlert.Headline()} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Repaired")
	assert.Contains(t, out, render.ConfidenceMeter(0.8734))
}

func TestConfidenceMeter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		confidence float64
		filled     int
	}{
		{confidence: 0.8734, filled: 17},
		{confidence: 0.5, filled: 10},
		{confidence: 0, filled: 0},
		{confidence: -0.4, filled: 0},
		{confidence: 7, filled: render.MeterWidth},
		{confidence: math.NaN(), filled: 0},
	}

	for _, tt := range tests {
		meter := render.ConfidenceMeter(tt.confidence)
		assert.Equal(t, render.MeterWidth, utf8.RuneCountInString(meter), "confidence %v", tt.confidence)
		assert.Equal(t, tt.filled, strings.Count(meter, "█"), "confidence %v", tt.confidence)
	}
}

func TestSamplesTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	render.Samples(&buf, domain.Samples())
	out := buf.String()

	assert.Contains(t, out, "sample2")
	assert.Contains(t, out, "New Study Links Coffee to Immortality")
	assert.Contains(t, out, "FAKE")
}
