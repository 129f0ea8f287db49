// Package highlight merges scored highlight ranges onto article text,
// producing the ordered plain and highlighted segments that renderers
// consume.
package highlight

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/jonesrussell/newscheck/internal/domain"
)

// Kind tags a segment as plain or highlighted.
type Kind uint8

const (
	KindPlain Kind = iota
	KindHighlighted
)

func (k Kind) String() string {
	if k == KindHighlighted {
		return "highlighted"
	}
	return "plain"
}

// ErrUnknownKind is returned when decoding a kind name other than plain
// or highlighted.
var ErrUnknownKind = errors.New("unknown segment kind")

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *Kind) UnmarshalText(data []byte) error {
	switch string(data) {
	case "plain":
		*k = KindPlain
	case "highlighted":
		*k = KindHighlighted
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, data)
	}
	return nil
}

// Segment is one contiguous piece of the text.
type Segment struct {
	Text  string  `json:"text"`
	Kind  Kind    `json:"kind"`
	Score float64 `json:"score"`
	// ID is normal-<i>, highlight-<i> or normal-end, where i is the
	// position of the highlight in start order.
	ID string `json:"id"`
}

// IsHighlighted reports whether the segment carries a score.
func (s Segment) IsHighlighted() bool {
	return s.Kind == KindHighlighted
}

// OverlapPolicy decides what happens when a highlight starts inside text
// an earlier highlight already consumed.
type OverlapPolicy uint8

const (
	// OverlapClip starts the highlight at the cursor and never moves the
	// cursor backward. Segments always concatenate to the input.
	OverlapClip OverlapPolicy = iota
	// OverlapVerbatim emits every highlight at its own start and lets the
	// cursor move backward. Overlapping input duplicates or drops text.
	OverlapVerbatim
)

// MalformedPolicy decides what happens to highlights that do not fit the text.
type MalformedPolicy uint8

const (
	// MalformedClamp clamps offsets into [0, len(text)] and drops ranges
	// that end up empty.
	MalformedClamp MalformedPolicy = iota
	// MalformedSkip drops any highlight that does not fit as given.
	MalformedSkip
)

// Options configures MergeWithOptions. The zero value clips overlaps and
// clamps malformed offsets.
type Options struct {
	Overlap   OverlapPolicy
	Malformed MalformedPolicy
}

// Diagnostic records a highlight that was repaired or dropped.
type Diagnostic struct {
	// Index is the highlight's position in the caller's slice.
	Index     int              `json:"index"`
	Highlight domain.Highlight `json:"highlight"`
	Reason    string           `json:"reason"`
}

// Diagnostic reasons.
const (
	ReasonClamped  = "clamped"
	ReasonDropped  = "dropped"
	ReasonSkipped  = "skipped"
	ReasonCovered  = "covered"
	ReasonTrimmed  = "trimmed"
	ReasonNaNScore = "nan_score"
)

// Merge splits text around highlights with the default options.
func Merge(text string, highlights []domain.Highlight) []Segment {
	segments, _ := MergeWithOptions(text, highlights, Options{})
	return segments
}

type indexed struct {
	domain.Highlight
	index int
}

// MergeWithOptions sorts highlights by start, keeping input order for
// ties, and walks them with a cursor over text. Offsets are byte offsets.
// It never panics, whatever the highlights contain.
func MergeWithOptions(text string, highlights []domain.Highlight, opts Options) ([]Segment, []Diagnostic) {
	if len(highlights) == 0 {
		if text == "" {
			return nil, nil
		}
		return []Segment{{Text: text, Kind: KindPlain, ID: "normal-end"}}, nil
	}

	usable, diagnostics := sanitize(len(text), highlights, opts.Malformed)

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Start < usable[j].Start
	})

	segments := make([]Segment, 0, 2*len(usable)+1)
	lastIndex := 0

	for i, h := range usable {
		start := h.Start
		if opts.Overlap == OverlapClip && start < lastIndex {
			if h.End <= lastIndex {
				diagnostics = append(diagnostics, Diagnostic{Index: h.index, Highlight: h.Highlight, Reason: ReasonCovered})
				continue
			}
			diagnostics = append(diagnostics, Diagnostic{Index: h.index, Highlight: h.Highlight, Reason: ReasonTrimmed})
			start = lastIndex
		}

		if start > lastIndex {
			segments = append(segments, Segment{
				Text: text[lastIndex:start],
				Kind: KindPlain,
				ID:   "normal-" + strconv.Itoa(i),
			})
		}

		segments = append(segments, Segment{
			Text:  text[start:h.End],
			Kind:  KindHighlighted,
			Score: h.Score,
			ID:    "highlight-" + strconv.Itoa(i),
		})

		lastIndex = h.End
	}

	if lastIndex < len(text) {
		segments = append(segments, Segment{
			Text: text[lastIndex:],
			Kind: KindPlain,
			ID:   "normal-end",
		})
	}

	return segments, diagnostics
}

// sanitize applies the malformed policy. Every returned highlight
// satisfies 0 <= Start < End <= textLen.
func sanitize(textLen int, highlights []domain.Highlight, policy MalformedPolicy) ([]indexed, []Diagnostic) {
	usable := make([]indexed, 0, len(highlights))
	var diagnostics []Diagnostic

	for i, h := range highlights {
		if h.Problem(textLen) == "" {
			usable = append(usable, indexed{Highlight: h, index: i})
			continue
		}

		if policy == MalformedSkip {
			diagnostics = append(diagnostics, Diagnostic{Index: i, Highlight: h, Reason: ReasonSkipped})
			continue
		}

		fixed := h
		fixed.Start = min(max(h.Start, 0), textLen)
		fixed.End = min(max(h.End, 0), textLen)
		if math.IsNaN(fixed.Score) {
			fixed.Score = 0
			diagnostics = append(diagnostics, Diagnostic{Index: i, Highlight: h, Reason: ReasonNaNScore})
		}
		if fixed.Start >= fixed.End {
			diagnostics = append(diagnostics, Diagnostic{Index: i, Highlight: h, Reason: ReasonDropped})
			continue
		}
		if fixed.Start != h.Start || fixed.End != h.End {
			diagnostics = append(diagnostics, Diagnostic{Index: i, Highlight: h, Reason: ReasonClamped})
		}
		usable = append(usable, indexed{Highlight: fixed, index: i})
	}

	return usable, diagnostics
}

// Concat joins segment texts in order.
func Concat(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// HighlightedCount counts highlighted segments.
func HighlightedCount(segments []Segment) int {
	n := 0
	for _, s := range segments {
		if s.IsHighlighted() {
			n++
		}
	}
	return n
}
