package locker

import (
	"fmt"

	"go.uber.org/zap"
)

// Authenticate runs the read-dispatch-check loop. It returns nil once a
// submitted entry matches the credential, and an error only when the event
// source fails. It refuses to run before both grabs are held.
func (s *Session) Authenticate() error {
	if s.state != FullyGrabbed {
		return fmt.Errorf("authenticate in state %s", s.state)
	}
	defer s.buf.Reset()

	for {
		ev, err := s.events.NextEvent()
		if err != nil {
			return fmt.Errorf("wait for input: %w", err)
		}
		if s.Handle(ev) {
			s.log.Debug("unlocked", zap.Int("failures", s.failures))
			return nil
		}
	}
}

// Handle applies one event to the session and reports whether it unlocked
// it. Anything but a key press is ignored.
func (s *Session) Handle(ev Event) bool {
	if ev.Type != EventKeyPress {
		return false
	}

	switch Classify(ev.Sym) {
	case ActionCancel:
		s.buf.Reset()
	case ActionErase:
		s.buf.Erase()
	case ActionSubmit:
		if s.buf.Len() == 0 {
			return false
		}
		return s.submit()
	default:
		if r, ok := ev.Char(); ok {
			s.buf.Append(r)
		}
	}
	return false
}

func (s *Session) submit() bool {
	candidate := s.buf.Bytes()
	ok := s.verifier.Verify(candidate)
	clear(candidate)
	s.buf.Reset()
	if ok {
		return true
	}

	s.failures++
	s.log.Debug("authentication failed", zap.Int("attempt", s.failures))
	if err := s.alerter.Bell(); err != nil {
		s.log.Warn("bell failed", zap.Error(err))
	}
	return false
}
