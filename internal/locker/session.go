// Package locker holds the input-capture and authentication state machine
// of the screen locker: grabbing keyboard and pointer, collecting the typed
// password and checking it against the stored hash.
package locker

import (
	"errors"

	"go.uber.org/zap"
)

// EventSource delivers input events. NextEvent blocks until one arrives.
type EventSource interface {
	NextEvent() (Event, error)
}

// Verifier checks a candidate password against the stored credential.
type Verifier interface {
	Verify(candidate []byte) bool
}

// Alerter signals a failed attempt to the user.
type Alerter interface {
	Bell() error
}

// Display is everything a session needs from the windowing side.
type Display interface {
	Grabber
	EventSource
	Alerter
}

// Session owns all state of one lock: the input grabs, the edit buffer and
// the credential verifier.
type Session struct {
	grabber  Grabber
	events   EventSource
	alerter  Alerter
	verifier Verifier
	retry    Retry
	log      *zap.Logger

	buf      *Buffer
	state    GrabState
	failures int
}

// Option customizes a Session.
type Option func(*Session)

// WithRetry replaces the keyboard grab retry policy.
func WithRetry(r Retry) Option {
	return func(s *Session) { s.retry = r }
}

// WithLogger sets the logger. Typed characters are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithBufferCapacity overrides BufferCapacity.
func WithBufferCapacity(n int) Option {
	return func(s *Session) { s.buf = NewBuffer(n) }
}

// NewSession builds a session on top of d that checks entries with v.
func NewSession(d Display, v Verifier, opts ...Option) (*Session, error) {
	if d == nil {
		return nil, errors.New("locker: nil display")
	}
	if v == nil {
		return nil, errors.New("locker: nil verifier")
	}
	s := &Session{
		grabber:  d,
		events:   d,
		alerter:  d,
		verifier: v,
		retry:    DefaultKeyboardRetry,
		log:      zap.NewNop(),
		buf:      NewBuffer(BufferCapacity),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// State reports the current grab state.
func (s *Session) State() GrabState { return s.state }

// Buffer exposes the edit buffer.
func (s *Session) Buffer() *Buffer { return s.buf }

// Failures reports how many submitted entries did not match.
func (s *Session) Failures() int { return s.failures }
