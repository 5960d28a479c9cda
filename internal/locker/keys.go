package locker

import "unicode/utf8"

// Keysym is an X keysym value, independent of the physical keycode.
type Keysym uint32

// Keysyms the loop dispatches on.
const (
	KeysymBackSpace Keysym = 0xff08
	KeysymLinefeed  Keysym = 0xff0a
	KeysymClear     Keysym = 0xff0b
	KeysymReturn    Keysym = 0xff0d
	KeysymEscape    Keysym = 0xff1b
	KeysymKPEnter   Keysym = 0xff8d
	KeysymDelete    Keysym = 0xffff
)

// Action is the logical meaning of a key press.
type Action int

const (
	// ActionInput means the key may contribute a character.
	ActionInput Action = iota
	// ActionCancel discards the whole entry.
	ActionCancel
	// ActionErase removes the last character.
	ActionErase
	// ActionSubmit checks the entry.
	ActionSubmit
)

// Classify maps a keysym to its action. Keysyms without a dedicated
// meaning are ActionInput; whether they add anything depends on the text
// they resolve to.
func Classify(sym Keysym) Action {
	switch sym {
	case KeysymEscape, KeysymClear:
		return ActionCancel
	case KeysymBackSpace, KeysymDelete:
		return ActionErase
	case KeysymReturn, KeysymKPEnter, KeysymLinefeed:
		return ActionSubmit
	default:
		return ActionInput
	}
}

// EventType tells key presses from everything else.
type EventType int

const (
	// EventOther is any event the loop does not care about.
	EventOther EventType = iota
	// EventKeyPress is a key going down.
	EventKeyPress
	// EventKeyRelease is a key going up.
	EventKeyRelease
)

// Event is a decoded input event.
type Event struct {
	Type EventType
	// Sym is the keysym after modifiers were applied.
	Sym Keysym
	// Text is what the key resolved to; it may be empty or hold more than
	// one character.
	Text string
}

// KeyPress builds a key press event.
func KeyPress(sym Keysym, text string) Event {
	return Event{Type: EventKeyPress, Sym: sym, Text: text}
}

// Char returns the single character the event resolved to. ok is false when
// the text is empty, invalid or longer than one character.
func (e Event) Char() (r rune, ok bool) {
	if utf8.RuneCountInString(e.Text) != 1 {
		return 0, false
	}
	r, _ = utf8.DecodeRuneInString(e.Text)
	if r == utf8.RuneError {
		return 0, false
	}
	return r, true
}
