package x11

import (
	"unicode"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/atinyakov/xlocker/internal/locker"
)

const noSymbol xproto.Keysym = 0

// Modifier bits as carried in the state field of key events.
const (
	modShift   = xproto.ModMaskShift
	modLock    = xproto.ModMaskLock
	modControl = xproto.ModMaskControl
	modNumLock = xproto.ModMask2
)

// Keysym ranges with a direct character mapping.
const (
	keysymKPSpace    xproto.Keysym = 0xff80
	keysymKPTab      xproto.Keysym = 0xff89
	keysymKPMultiply xproto.Keysym = 0xffaa
	keysymKP9        xproto.Keysym = 0xffb9
	keysymKPEqual    xproto.Keysym = 0xffbd
	unicodeOffset    xproto.Keysym = 0x01000000
)

// selectKeysym picks the keysym for a key given its first two keymap columns
// and the modifier state, following the core protocol rules: NumLock selects
// the second column of keypad keys, Shift selects the second column, and Lock
// capitalizes alphabetic keysyms.
func selectKeysym(col0, col1 xproto.Keysym, state uint16) xproto.Keysym {
	if col1 == noSymbol {
		col1 = upperKeysym(col0)
	}
	shift := state&modShift != 0
	lock := state&modLock != 0

	if state&modNumLock != 0 && isKeypad(col1) {
		if shift {
			return col0
		}
		return col1
	}
	switch {
	case shift:
		return col1
	case lock:
		return upperKeysym(col0)
	default:
		return col0
	}
}

// keysymText converts a keysym into the text the key produces, or "" when it
// produces none.
func keysymText(sym xproto.Keysym, state uint16) string {
	r, ok := keysymRune(sym)
	if !ok {
		return ""
	}
	if state&modControl != 0 {
		r = controlRune(r)
	}
	if r == 0 {
		return ""
	}
	return string(r)
}

func keysymRune(sym xproto.Keysym) (rune, bool) {
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		return rune(sym), true
	case sym >= 0xff08 && sym <= 0xff0b, sym == 0xff0d, sym == 0xff1b, sym == 0xffff:
		// BackSpace, Tab, Linefeed, Clear, Return, Escape, Delete.
		return rune(sym & 0x7f), true
	case sym == keysymKPSpace:
		return ' ', true
	case sym == keysymKPTab:
		return '\t', true
	case sym == 0xff8d:
		return '\r', true
	case sym >= keysymKPMultiply && sym <= keysymKP9, sym == keysymKPEqual:
		return rune(sym & 0x7f), true
	case sym >= unicodeOffset+0x100 && sym <= unicodeOffset+0x10ffff:
		return rune(sym - unicodeOffset), true
	default:
		return 0, false
	}
}

// controlRune applies the Control modifier the way the C library does.
func controlRune(r rune) rune {
	switch {
	case (r >= '@' && r < 0x7f) || r == ' ':
		return r & 0x1f
	case r == '2':
		return 0
	case r >= '3' && r <= '7':
		return r - ('3' - 0x1b)
	case r == '8':
		return 0x7f
	case r == '/':
		return '_' & 0x1f
	default:
		return r
	}
}

func isKeypad(sym xproto.Keysym) bool {
	return sym >= keysymKPSpace && sym <= keysymKPEqual
}

func upperKeysym(sym xproto.Keysym) xproto.Keysym {
	r, ok := keysymRune(sym)
	if !ok || !unicode.IsLower(r) {
		return sym
	}
	u := unicode.ToUpper(r)
	if u <= 0xff {
		return xproto.Keysym(u)
	}
	return unicodeOffset + xproto.Keysym(u)
}

// decodeKey turns a keycode and modifier state into the locker's view of a
// key: the effective keysym and the text it produced.
func decodeKey(lookup func(column byte) xproto.Keysym, state uint16) (locker.Keysym, string) {
	sym := selectKeysym(lookup(0), lookup(1), state)
	return locker.Keysym(sym), keysymText(sym, state)
}
