package domain

import "strings"

// Sample is a built-in article for trying the analyzer.
type Sample struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	IsFake  bool   `json:"is_fake"`
}

var samples = []Sample{
	{
		ID:    "sample1",
		Title: "NASA Confirms Evidence of Water on Mars",
		Content: "NASA scientists have confirmed evidence of liquid water on Mars. The discovery was made using data " +
			"from the Mars Reconnaissance Orbiter, which detected hydrated salts on the slopes of several Martian " +
			"mountains. This groundbreaking finding suggests that life could potentially exist on the Red Planet.",
	},
	{
		ID:    "sample2",
		Title: "New Study Links Coffee to Immortality",
		Content: "A groundbreaking study by researchers at a major university has found that drinking 10 cups of " +
			"coffee daily grants immortality. The study, which followed 5 participants over a 2-week period, found " +
			"that those who consumed large amounts of coffee developed superhuman abilities and showed no signs of " +
			"aging. Scientists are calling it \"the miracle cure for death.\"",
		IsFake: true,
	},
	{
		ID:    "sample3",
		Title: "Climate Change Report Shows Rising Global Temperatures",
		Content: "The latest climate report shows global temperatures have risen by 1.1°C above pre-industrial " +
			"levels. Scientists warn that urgent action is needed to prevent catastrophic effects of climate " +
			"change. The report, compiled by leading climate experts, indicates that limiting warming to 1.5°C " +
			"will require unprecedented transitions in all aspects of society.",
	},
}

// Samples returns a copy of the built-in sample articles.
func Samples() []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}

// SampleByID finds a sample by id, ignoring case.
func SampleByID(id string) (Sample, bool) {
	for _, s := range samples {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return Sample{}, false
}
