package locker

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrKeyboardUnavailable is returned when every keyboard grab attempt was refused.
	ErrKeyboardUnavailable = errors.New("cannot grab keyboard")
	// ErrPointerUnavailable is returned when the pointer grab was refused.
	ErrPointerUnavailable = errors.New("cannot grab pointer")
)

// Keyboard grab policy. A window manager that launched the locker from a
// key binding may still hold its own grab for a short while.
const (
	KeyboardGrabAttempts = 100
	KeyboardGrabDelay    = 10 * time.Millisecond
)

// DefaultKeyboardRetry is the retry policy used for the keyboard grab.
var DefaultKeyboardRetry = Retry{Attempts: KeyboardGrabAttempts, Delay: KeyboardGrabDelay}

// Grabber is the part of the display the locker takes exclusive input from.
type Grabber interface {
	// GrabKeyboard makes one attempt at an exclusive keyboard grab.
	GrabKeyboard() error
	// GrabPointer makes one attempt at an exclusive pointer grab.
	GrabPointer() error
	// UngrabKeyboard releases the keyboard grab.
	UngrabKeyboard() error
}

// GrabState tracks how much input the session owns.
type GrabState int

const (
	// Ungrabbed means no input is held; also the state after the keyboard
	// grab was released following a pointer failure.
	Ungrabbed GrabState = iota
	// KeyboardGrabbed means the keyboard is held but the pointer is not.
	KeyboardGrabbed
	// FullyGrabbed means keyboard and pointer are held and the
	// authentication loop may start.
	FullyGrabbed
)

func (s GrabState) String() string {
	switch s {
	case Ungrabbed:
		return "ungrabbed"
	case KeyboardGrabbed:
		return "keyboard"
	case FullyGrabbed:
		return "keyboard+pointer"
	default:
		return fmt.Sprintf("GrabState(%d)", int(s))
	}
}

// AcquireKeyboard grabs the keyboard using the session's retry policy.
func (s *Session) AcquireKeyboard() error {
	if s.state != Ungrabbed {
		return fmt.Errorf("keyboard grab requested in state %s", s.state)
	}
	n, err := s.retry.Do(s.grabber.GrabKeyboard)
	if err != nil {
		s.log.Debug("keyboard grab refused", zap.Int("attempts", n), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrKeyboardUnavailable, err)
	}
	s.log.Debug("keyboard grabbed", zap.Int("attempts", n))
	s.state = KeyboardGrabbed
	return nil
}

// AcquirePointer grabs the pointer with a single attempt. On failure the
// keyboard grab is released before the error is returned.
func (s *Session) AcquirePointer() error {
	if s.state != KeyboardGrabbed {
		return fmt.Errorf("pointer grab requested in state %s", s.state)
	}
	if err := s.grabber.GrabPointer(); err != nil {
		if uerr := s.grabber.UngrabKeyboard(); uerr != nil {
			s.log.Warn("failed to release keyboard grab", zap.Error(uerr))
		}
		s.state = Ungrabbed
		return fmt.Errorf("%w: %v", ErrPointerUnavailable, err)
	}
	s.log.Debug("pointer grabbed")
	s.state = FullyGrabbed
	return nil
}

// Acquire takes the keyboard and then the pointer.
func (s *Session) Acquire() error {
	if err := s.AcquireKeyboard(); err != nil {
		return err
	}
	return s.AcquirePointer()
}
