// Package heuristic is a keyword-based stand-in for the classification
// model. It flags well-known sensational phrasing and labels any text that
// contains it as FAKE.
package heuristic

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/domain"
)

// Name is the backend name used in metrics and reports.
const Name = "heuristic"

// DefaultRandomHighlightRate is the share of long words flagged at random.
const DefaultRandomHighlightRate = 0.05

const (
	minRandomWordLen = 5

	realConfidenceBase   = 0.6
	realConfidenceSpread = 0.3
	fakeConfidenceBase   = 0.75
	fakeConfidenceSpread = 0.2
	phraseScoreBase      = 0.6
	phraseScoreSpread    = 0.4
	randomScoreSpread    = 0.5
)

// Config configures a Detector.
type Config struct {
	// Seed fixes the random source. Zero seeds from the clock.
	Seed uint64
	// RandomHighlightRate is the probability that a word of five or more
	// bytes is flagged with a low score. Zero selects the default, a
	// negative value disables random highlights.
	RandomHighlightRate float64
	// Latency simulates model inference time.
	Latency time.Duration
	// Phrases overrides SuspiciousPhrases.
	Phrases []string
}

// Detector implements analyzer.Analyzer.
type Detector struct {
	matcher    *ahocorasick.Matcher
	phrases    []string // folded, index-aligned with matcher
	randomRate float64
	latency    time.Duration
	log        infralogger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds the phrase automaton.
func New(cfg Config, log infralogger.Logger) *Detector {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewWithRand(cfg, rand.New(rand.NewPCG(seed, seed>>1|1)), log)
}

// NewWithRand is New with an explicit random source.
func NewWithRand(cfg Config, rng *rand.Rand, log infralogger.Logger) *Detector {
	source := cfg.Phrases
	if len(source) == 0 {
		source = SuspiciousPhrases
	}

	seen := make(map[string]struct{}, len(source))
	phrases := make([]string, 0, len(source))
	for _, p := range source {
		f := foldString(strings.TrimSpace(p))
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		phrases = append(phrases, f)
	}

	rate := cfg.RandomHighlightRate
	switch {
	case rate == 0:
		rate = DefaultRandomHighlightRate
	case rate < 0:
		rate = 0
	case rate > 1:
		rate = 1
	}

	if log == nil {
		log = infralogger.NewNop()
	}
	log.Info("heuristic detector initialized",
		infralogger.Int("phrases", len(phrases)),
		infralogger.Float64("random_highlight_rate", rate),
	)

	return &Detector{
		matcher:    ahocorasick.NewStringMatcher(phrases),
		phrases:    phrases,
		randomRate: rate,
		latency:    cfg.Latency,
		log:        log,
		rng:        rng,
	}
}

// Name implements analyzer.Analyzer.
func (d *Detector) Name() string {
	return Name
}

// Analyze flags suspicious phrases in text. Offsets are byte offsets into
// text as given, not into its normalised form.
func (d *Detector) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	f := fold(text)
	spans := d.phraseSpans(f)

	d.mu.Lock()
	defer d.mu.Unlock()

	highlights := make([]domain.Highlight, 0, len(spans))
	for _, s := range spans {
		highlights = append(highlights, domain.Highlight{
			Start: s[0],
			End:   s[1],
			Score: phraseScoreBase + d.rng.Float64()*phraseScoreSpread,
		})
	}

	prediction := domain.PredictionReal
	confidence := realConfidenceBase + d.rng.Float64()*realConfidenceSpread
	if len(spans) > 0 {
		prediction = domain.PredictionFake
		confidence = fakeConfidenceBase + d.rng.Float64()*fakeConfidenceSpread
	}

	highlights = append(highlights, d.randomHighlightsLocked(text, spans)...)
	sort.SliceStable(highlights, func(i, j int) bool {
		return highlights[i].Start < highlights[j].Start
	})

	infralogger.FromContext(ctx, d.log).Debug("heuristic analysis complete",
		infralogger.String("prediction", string(prediction)),
		infralogger.Int("phrase_hits", len(spans)),
		infralogger.Int("highlights", len(highlights)),
	)

	return &domain.AnalysisResult{
		Prediction: prediction,
		Confidence: confidence,
		Highlights: highlights,
	}, nil
}

func (d *Detector) wait(ctx context.Context) error {
	if d.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// phraseSpans returns every word-bounded occurrence of a matched phrase as
// original-text [start, end) pairs, sorted and without duplicates.
func (d *Detector) phraseSpans(f folded) [][2]int {
	if f.text == "" {
		return nil
	}

	var spans [][2]int
	seen := make(map[[2]int]struct{})
	for _, idx := range d.matcher.Match([]byte(f.text)) {
		phrase := d.phrases[idx]
		for from := 0; from < len(f.text); {
			i := strings.Index(f.text[from:], phrase)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(phrase)
			from = start + 1

			if !atBoundary(f.text, start, end) {
				continue
			}
			origStart, origEnd := f.span(start, end)
			key := [2]int{origStart, origEnd}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			spans = append(spans, key)
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i][0] != spans[j][0] {
			return spans[i][0] < spans[j][0]
		}
		return spans[i][1] < spans[j][1]
	})
	return spans
}

// randomHighlightsLocked flags long words at random with low scores,
// skipping words inside phrase highlights. Callers hold d.mu.
func (d *Detector) randomHighlightsLocked(text string, taken [][2]int) []domain.Highlight {
	if d.randomRate <= 0 {
		return nil
	}

	var out []domain.Highlight
	for start, end := range words(text) {
		if end-start < minRandomWordLen || overlapsAny(start, end, taken) {
			continue
		}
		if d.rng.Float64() < d.randomRate {
			out = append(out, domain.Highlight{
				Start: start,
				End:   end,
				Score: d.rng.Float64() * randomScoreSpread,
			})
		}
	}
	return out
}

// words yields the byte range of each whitespace-separated word.
func words(text string) func(yield func(int, int) bool) {
	return func(yield func(int, int) bool) {
		start := -1
		for i, r := range text {
			if unicode.IsSpace(r) {
				if start >= 0 && !yield(start, i) {
					return
				}
				start = -1
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			yield(start, len(text))
		}
	}
}

func overlapsAny(start, end int, spans [][2]int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}
