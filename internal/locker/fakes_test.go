package locker

import (
	"errors"
	"io"
	"time"
)

// fakeDisplay is a scripted Display. Keyboard grabs are refused until
// keyboardRefusals attempts have been made; a negative value refuses forever.
type fakeDisplay struct {
	events []Event

	keyboardRefusals int
	pointerErr       error

	keyboardCalls int
	pointerCalls  int
	ungrabCalls   int
	bells         int
	calls         []string
}

var errRefused = errors.New("already grabbed")

func (f *fakeDisplay) GrabKeyboard() error {
	f.keyboardCalls++
	f.calls = append(f.calls, "grab-keyboard")
	if f.keyboardRefusals < 0 || f.keyboardCalls <= f.keyboardRefusals {
		return errRefused
	}
	return nil
}

func (f *fakeDisplay) GrabPointer() error {
	f.pointerCalls++
	f.calls = append(f.calls, "grab-pointer")
	return f.pointerErr
}

func (f *fakeDisplay) UngrabKeyboard() error {
	f.ungrabCalls++
	f.calls = append(f.calls, "ungrab-keyboard")
	return nil
}

func (f *fakeDisplay) Bell() error {
	f.bells++
	return nil
}

func (f *fakeDisplay) NextEvent() (Event, error) {
	if len(f.events) == 0 {
		return Event{}, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

// passwordVerifier accepts exactly one password and records every check.
type passwordVerifier struct {
	password string
	checked  []string
}

func (v *passwordVerifier) Verify(candidate []byte) bool {
	v.checked = append(v.checked, string(candidate))
	return string(candidate) == v.password
}

func noSleep(time.Duration) {}

func typed(s string) []Event {
	evs := make([]Event, 0, len(s))
	for _, r := range s {
		evs = append(evs, KeyPress(Keysym(r), string(r)))
	}
	return evs
}

func key(sym Keysym) Event {
	return KeyPress(sym, "")
}

func grabbedSession(d *fakeDisplay, v Verifier, opts ...Option) *Session {
	s, err := NewSession(d, v, append([]Option{WithRetry(Retry{Attempts: 3, Sleep: noSleep})}, opts...)...)
	if err != nil {
		panic(err)
	}
	if err := s.Acquire(); err != nil {
		panic(err)
	}
	return s
}
