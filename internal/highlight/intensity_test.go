package highlight_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntensity_ClampLaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  float64
		level int
	}{
		{score: -5, want: 0.1, level: 10},
		{score: 0, want: 0.1, level: 10},
		{score: 0.5, want: 0.5, level: 50},
		{score: 1, want: 0.9, level: 90},
		{score: 50, want: 0.9, level: 90},
		{score: 0.34, want: 0.34, level: 30},
		{score: math.NaN(), want: 0.1, level: 10},
	}

	for _, tt := range tests {
		got := highlight.Intensity(tt.score)
		assert.GreaterOrEqual(t, got, 0.1)
		assert.LessOrEqual(t, got, 0.9)
		assert.InDelta(t, tt.want, got, 1e-12, "Intensity(%v)", tt.score)
		assert.Equal(t, tt.level, highlight.Level(tt.score), "Level(%v)", tt.score)
	}
}

func TestSuspicionPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 73, highlight.SuspicionPercent(0.7349))
	assert.Equal(t, 150, highlight.SuspicionPercent(1.5), "raw score is not clamped")
	assert.Equal(t, 0, highlight.SuspicionPercent(math.NaN()))
}

func TestSegment_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(highlight.Segment{Text: "x", Kind: highlight.KindHighlighted, Score: 0.5, ID: "highlight-0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"x","kind":"highlighted","score":0.5,"id":"highlight-0"}`, string(data))
}

func TestSegment_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	text := "hello world"
	segments := highlight.Merge(text, []domain.Highlight{{Start: 6, End: 11, Score: 0.8}})

	data, err := json.Marshal(segments)
	require.NoError(t, err)

	var decoded []highlight.Segment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, segments, decoded)
	assert.Equal(t, text, highlight.Concat(decoded))
}

func TestKind_UnmarshalTextRejectsUnknown(t *testing.T) {
	t.Parallel()

	var seg highlight.Segment
	err := json.Unmarshal([]byte(`{"text":"x","kind":"bold","score":0,"id":"normal-end"}`), &seg)
	require.ErrorIs(t, err, highlight.ErrUnknownKind)
}

func TestLevel_RoundsExactDecimalValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		level int
	}{
		// 0.35 is stored as 0.34999..., so it rounds down
		{score: 0.35, level: 30},
		{score: 0.15, level: 10},
		{score: 0.85, level: 80},
		{score: 0.45, level: 50},
		{score: 0.65, level: 70},
		// exact ties round up
		{score: 0.25, level: 30},
		{score: 0.75, level: 80},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, highlight.Level(tt.score), "Level(%v)", tt.score)
	}
}
