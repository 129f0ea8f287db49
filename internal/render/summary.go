package render

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/newscheck/internal/analyzer"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
)

// DateLayout formats the analysis timestamp.
const DateLayout = "2006-01-02 15:04:05 MST"

// MeterWidth is the number of cells in a confidence meter.
const MeterWidth = 20

// ConfidenceMeter draws c as a bar of MeterWidth cells. Out-of-range and
// NaN confidences are clamped first.
func ConfidenceMeter(c float64) string {
	filled := int(math.Round(domain.ClampConfidence(c) * MeterWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", MeterWidth-filled)
}

// Summary writes the verdict of a report as a two-column table.
func Summary(w io.Writer, r *analyzer.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(r.Headline)

	t.AppendRows([]table.Row{
		{"Prediction", r.Result.Prediction},
		{"Confidence", domain.FormatConfidence(r.Result.Confidence)},
		{"", ConfidenceMeter(r.Result.Confidence)},
		{"Severity", r.Severity},
		{"Analyzed", r.AnalyzedAt.Format(DateLayout)},
		{"Backend", r.Backend},
		{"Highlights", strconv.Itoa(highlight.HighlightedCount(r.Segments))},
	})
	if n := len(r.Diagnostics); n > 0 {
		t.AppendRow(table.Row{"Repaired", strconv.Itoa(n)})
	}

	t.Render()
}

// Samples writes the built-in samples as a table.
func Samples(w io.Writer, samples []domain.Sample) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Expected"})

	for _, s := range samples {
		expected := domain.PredictionReal
		if s.IsFake {
			expected = domain.PredictionFake
		}
		t.AppendRow(table.Row{s.ID, s.Title, expected})
	}

	t.Render()
}
