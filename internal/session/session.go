// Package session holds the submit/resolve lifecycle of a single analysis
// form: the text being edited, the request in flight and its outcome.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonesrussell/newscheck/internal/domain"
)

// State is the lifecycle position of a Session.
type State int

const (
	Idle State = iota
	Requesting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrRequestInFlight is returned when an event is not allowed while a
	// request is outstanding.
	ErrRequestInFlight = errors.New("analysis already in progress")
	// ErrNotRequesting is returned by Resolve and Reject outside Requesting.
	ErrNotRequesting = errors.New("no analysis in progress")
)

// Analyzer is the call a Session drives.
type Analyzer interface {
	Classify(ctx context.Context, text string) (*domain.AnalysisResult, error)
}

// Snapshot is a copy of the session's observable state.
type Snapshot struct {
	State State
	Input string
	// Submitted is the text the current result or request belongs to.
	Submitted string
	Result    *domain.AnalysisResult
	// Message is the user-facing error text in the Failed state.
	Message string
	Err     error
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	state     State
	input     string
	submitted string
	result    *domain.AnalysisResult
	err       error
}

// New returns an Idle session.
func New() *Session {
	return &Session{}
}

// SetInput replaces the edited text. Editing is allowed in every state.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Submit starts an analysis of the current input. Empty input moves the
// session to Failed with domain.ErrEmptyText and no request is made; the
// returned text is empty in that case.
func (s *Session) Submit() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Requesting {
		return "", ErrRequestInFlight
	}

	if err := (domain.AnalysisRequest{Text: s.input}).Validate(); err != nil {
		s.state = Failed
		s.result = nil
		s.err = err
		return "", err
	}

	s.state = Requesting
	s.submitted = s.input
	s.result = nil
	s.err = nil
	return s.submitted, nil
}

// Resolve completes the outstanding request.
func (s *Session) Resolve(result *domain.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Requesting {
		return ErrNotRequesting
	}
	s.state = Succeeded
	s.result = result
	return nil
}

// Reject fails the outstanding request. err is kept for logging; only its
// user message is ever shown.
func (s *Session) Reject(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Requesting {
		return ErrNotRequesting
	}
	if err == nil {
		err = domain.ErrAnalysisFailed
	}
	s.state = Failed
	s.err = err
	return nil
}

// Clear resets input, result and error and returns to Idle.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Requesting {
		return ErrRequestInFlight
	}
	s.state = Idle
	s.input = ""
	s.submitted = ""
	s.result = nil
	s.err = nil
	return nil
}

// SelectSample replaces the input with a sample and discards any previous
// outcome.
func (s *Session) SelectSample(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Requesting {
		return ErrRequestInFlight
	}
	s.state = Idle
	s.input = text
	s.submitted = ""
	s.result = nil
	s.err = nil
	return nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:     s.state,
		Input:     s.input,
		Submitted: s.submitted,
		Result:    s.result,
		Err:       s.err,
	}
	if s.state == Failed {
		snap.Message = domain.UserMessage(s.err)
	}
	return snap
}

// Run submits the current input, calls a once and resolves or rejects with
// the outcome. The lock is not held during the call.
func (s *Session) Run(ctx context.Context, a Analyzer) (Snapshot, error) {
	text, err := s.Submit()
	if err != nil {
		return s.Snapshot(), err
	}

	result, callErr := a.Classify(ctx, text)
	if callErr != nil {
		if err := s.Reject(callErr); err != nil {
			return s.Snapshot(), err
		}
		return s.Snapshot(), callErr
	}

	if err := s.Resolve(result); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// Summary is a one-line description of the state, for logs.
func (snap Snapshot) Summary() string {
	var b strings.Builder
	b.WriteString(snap.State.String())
	if snap.Result != nil {
		fmt.Fprintf(&b, " %s %s", snap.Result.Prediction, domain.FormatConfidence(snap.Result.Confidence))
	}
	if snap.Message != "" {
		fmt.Fprintf(&b, ": %s", snap.Message)
	}
	return b.String()
}
