package heuristic_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/heuristic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetector(seed uint64) *heuristic.Detector {
	return heuristic.NewWithRand(
		heuristic.Config{RandomHighlightRate: -1},
		rand.New(rand.NewPCG(seed, seed)),
		infralogger.NewNop(),
	)
}

func highlighted(text string, hs []domain.Highlight) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, text[h.Start:h.End])
	}
	return out
}

func TestDetector_FakeSample(t *testing.T) {
	t.Parallel()

	sample, ok := domain.SampleByID("sample2")
	require.True(t, ok)

	result, err := newDetector(1).Analyze(context.Background(), sample.Content)
	require.NoError(t, err)

	assert.Equal(t, domain.PredictionFake, result.Prediction)
	assert.GreaterOrEqual(t, result.Confidence, 0.75)
	assert.Less(t, result.Confidence, 0.95)
	assert.Equal(t, []string{"immortality", "miracle", "cure"}, highlighted(sample.Content, result.Highlights))

	for _, h := range result.Highlights {
		assert.GreaterOrEqual(t, h.Score, 0.6)
		assert.Less(t, h.Score, 1.0)
	}

	problems, err := result.Validate(len(sample.Content))
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestDetector_RealSamples(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"sample1", "sample3"} {
		sample, ok := domain.SampleByID(id)
		require.True(t, ok)

		result, err := newDetector(1).Analyze(context.Background(), sample.Content)
		require.NoError(t, err)

		assert.Equal(t, domain.PredictionReal, result.Prediction, id)
		assert.GreaterOrEqual(t, result.Confidence, 0.6, id)
		assert.Less(t, result.Confidence, 0.9, id)
		assert.Empty(t, result.Highlights, id)
	}
}

func TestDetector_Deterministic(t *testing.T) {
	t.Parallel()

	text := "SHOCKING truth revealed: a miracle cure they don't want you to know about"
	cfg := heuristic.Config{RandomHighlightRate: 0.5}

	a := heuristic.NewWithRand(cfg, rand.New(rand.NewPCG(7, 7)), nil)
	b := heuristic.NewWithRand(cfg, rand.New(rand.NewPCG(7, 7)), nil)

	ra, err := a.Analyze(context.Background(), text)
	require.NoError(t, err)
	rb, err := b.Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, ra, rb)
}

func TestDetector_CaseAndQuoteFolding(t *testing.T) {
	t.Parallel()

	text := "Insiders say THEY DON’T WANT YOU TO KNOW this."
	result, err := newDetector(3).Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, domain.PredictionFake, result.Prediction)
	assert.Equal(t, []string{"THEY DON’T WANT YOU TO KNOW"}, highlighted(text, result.Highlights))
}

func TestDetector_OffsetsAfterMultibyteText(t *testing.T) {
	t.Parallel()

	text := "Café owners call it a hoax. Ünbelievable!"
	result, err := newDetector(4).Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"hoax", "Ünbelievable"}, highlighted(text, result.Highlights))
}

func TestDetector_WordBoundaries(t *testing.T) {
	t.Parallel()

	// "secretary" and "procure" contain phrases but are different words.
	text := "The secretary will procure supplies."
	result, err := newDetector(5).Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, domain.PredictionReal, result.Prediction)
	assert.Empty(t, result.Highlights)
}

func TestDetector_OverlappingPhrasesBothReported(t *testing.T) {
	t.Parallel()

	text := "The shocking truth."
	result, err := newDetector(6).Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"shocking", "shocking truth"}, highlighted(text, result.Highlights))
}

func TestDetector_RandomHighlightsAvoidPhrases(t *testing.T) {
	t.Parallel()

	text := "bombshell remarkable extraordinary wonderful"
	d := heuristic.NewWithRand(heuristic.Config{RandomHighlightRate: 1}, rand.New(rand.NewPCG(9, 9)), nil)

	result, err := d.Analyze(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, result.Highlights, 4)
	assert.Equal(t, []string{"bombshell", "remarkable", "extraordinary", "wonderful"}, highlighted(text, result.Highlights))
	assert.GreaterOrEqual(t, result.Highlights[0].Score, 0.6)
	for _, h := range result.Highlights[1:] {
		assert.Less(t, h.Score, 0.5)
	}
}

func TestDetector_CustomPhrases(t *testing.T) {
	t.Parallel()

	d := heuristic.NewWithRand(
		heuristic.Config{RandomHighlightRate: -1, Phrases: []string{"Flat Earth", "flat earth", " "}},
		rand.New(rand.NewPCG(1, 1)),
		nil,
	)
	result, err := d.Analyze(context.Background(), "proof of a flat earth")
	require.NoError(t, err)
	require.Len(t, result.Highlights, 1)

	assert.Equal(t, []domain.Highlight{{Start: 11, End: 21, Score: result.Highlights[0].Score}}, result.Highlights)
}

func TestDetector_LatencyHonoursContext(t *testing.T) {
	t.Parallel()

	d := heuristic.New(heuristic.Config{Seed: 1, Latency: time.Minute}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := d.Analyze(ctx, "text")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "heuristic", d.Name())
}
