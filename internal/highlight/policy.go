package highlight

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned by the policy parsers.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy names as used in configuration and API requests.
const (
	PolicyClip     = "clip"
	PolicyVerbatim = "verbatim"
	PolicyClamp    = "clamp"
	PolicySkip     = "skip"
)

func (p OverlapPolicy) String() string {
	if p == OverlapVerbatim {
		return PolicyVerbatim
	}
	return PolicyClip
}

func (p MalformedPolicy) String() string {
	if p == MalformedSkip {
		return PolicySkip
	}
	return PolicyClamp
}

// ParseOverlapPolicy maps "clip" (or "") and "verbatim".
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", PolicyClip:
		return OverlapClip, nil
	case PolicyVerbatim:
		return OverlapVerbatim, nil
	default:
		return OverlapClip, fmt.Errorf("%w: overlap %q", ErrUnknownPolicy, s)
	}
}

// ParseMalformedPolicy maps "clamp" (or "") and "skip".
func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", PolicyClamp:
		return MalformedClamp, nil
	case PolicySkip:
		return MalformedSkip, nil
	default:
		return MalformedClamp, fmt.Errorf("%w: malformed %q", ErrUnknownPolicy, s)
	}
}

// ParseOptions parses both policies.
func ParseOptions(overlap, malformed string) (Options, error) {
	o, err := ParseOverlapPolicy(overlap)
	if err != nil {
		return Options{}, err
	}
	m, err := ParseMalformedPolicy(malformed)
	if err != nil {
		return Options{}, err
	}
	return Options{Overlap: o, Malformed: m}, nil
}
