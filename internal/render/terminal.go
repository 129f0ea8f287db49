// Package render turns merged segments and reports into terminal text,
// tables and HTML.
package render

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jonesrussell/newscheck/internal/highlight"
)

// Band groups display levels for terminals, which cannot show nine shades.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

const (
	lowBandMaxLevel    = 30
	mediumBandMaxLevel = 60
)

// BandFor places a score in a colour band by its display level.
func BandFor(score float64) Band {
	switch level := highlight.Level(score); {
	case level <= lowBandMaxLevel:
		return BandLow
	case level <= mediumBandMaxLevel:
		return BandMedium
	default:
		return BandHigh
	}
}

var bandColors = map[Band]text.Colors{
	BandLow:    {text.FgYellow},
	BandMedium: {text.FgHiRed},
	BandHigh:   {text.BgRed, text.FgHiWhite, text.Bold},
}

// Plain-mode markers around highlighted text.
const (
	MarkOpen  = "[["
	MarkClose = "]]"
)

// Terminal writes segments for a console.
type Terminal struct {
	// NoColor wraps highlights in [[...]] instead of ANSI colours.
	NoColor bool
}

// Render writes every segment in order.
func (t Terminal) Render(w io.Writer, segments []highlight.Segment) error {
	_, err := io.WriteString(w, t.String(segments))
	return err
}

// String renders segments to a string.
func (t Terminal) String(segments []highlight.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		switch {
		case !s.IsHighlighted():
			b.WriteString(s.Text)
		case t.NoColor:
			b.WriteString(MarkOpen)
			b.WriteString(s.Text)
			b.WriteString(MarkClose)
		default:
			b.WriteString(bandColors[BandFor(s.Score)].Sprint(s.Text))
		}
	}
	return b.String()
}
