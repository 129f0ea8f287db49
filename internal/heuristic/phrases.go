package heuristic

// SuspiciousPhrases are wording patterns common in fabricated stories.
// Matching is case-insensitive and on word boundaries.
var SuspiciousPhrases = []string{
	"shocking",
	"shocking truth",
	"secret",
	"conspiracy",
	"government conspiracy",
	"hoax",
	"they don't want you to know",
	"miracle",
	"cure",
	"cure for all",
	"breakthrough",
	"amazing",
	"amazing discovery",
	"incredible",
	"exclusive",
	"revealed",
	"anonymous sources",
	"leaked",
	"controversial",
	"alarming",
	"bombshell",
	"unbelievable",
	"jaw-dropping",
	"mind-blowing",
	"immortality",
}
