package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/xlocker/internal/locker"
)

// Keymap columns for a few keys of a US layout.
var (
	keyA      = [2]xproto.Keysym{'a', 'A'}
	key1      = [2]xproto.Keysym{'1', '!'}
	keyReturn = [2]xproto.Keysym{0xff0d, noSymbol}
	keyKP1    = [2]xproto.Keysym{0xff9c, 0xffb1} // KP_End, KP_1
	keyShiftL = [2]xproto.Keysym{0xffe1, noSymbol}
	keyEuro   = [2]xproto.Keysym{0x20ac, noSymbol} // EuroSign
	keyCyrA   = [2]xproto.Keysym{0x01000430, 0x01000410}
)

func lookupFor(cols [2]xproto.Keysym) func(byte) xproto.Keysym {
	return func(column byte) xproto.Keysym {
		if int(column) < len(cols) {
			return cols[column]
		}
		return noSymbol
	}
}

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name     string
		cols     [2]xproto.Keysym
		state    uint16
		wantSym  locker.Keysym
		wantText string
	}{
		{"plain letter", keyA, 0, 'a', "a"},
		{"shifted letter", keyA, modShift, 'A', "A"},
		{"caps lock letter", keyA, modLock, 'A', "A"},
		{"caps lock digit", key1, modLock, '1', "1"},
		{"shifted digit", key1, modShift, '!', "!"},
		{"return", keyReturn, 0, locker.KeysymReturn, "\r"},
		{"keypad without numlock", keyKP1, 0, 0xff9c, ""},
		{"keypad with numlock", keyKP1, modNumLock, 0xffb1, "1"},
		{"keypad numlock and shift", keyKP1, modNumLock | modShift, 0xff9c, ""},
		{"modifier key", keyShiftL, modShift, 0xffe1, ""},
		{"control letter", keyA, modControl, 'a', "\x01"},
		{"keysym outside latin-1", keyEuro, 0, 0x20ac, ""},
		{"unicode keysym", keyCyrA, 0, 0x01000430, "\u0430"},
		{"shifted unicode keysym", keyCyrA, modShift, 0x01000410, "\u0410"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, text := decodeKey(lookupFor(tt.cols), tt.state)
			assert.Equal(t, tt.wantSym, sym)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestSelectKeysym_SynthesizesUppercase(t *testing.T) {
	got := selectKeysym('q', noSymbol, modShift)
	assert.Equal(t, xproto.Keysym('Q'), got)

	// Latin-1 lowercase with an uppercase form outside Latin-1.
	got = selectKeysym(0xff, noSymbol, modShift) // ydiaeresis
	assert.Equal(t, unicodeOffset+0x178, got)
}

func TestControlRune(t *testing.T) {
	tests := map[rune]rune{
		'a': 0x01,
		'@': 0x00,
		' ': 0x00,
		'2': 0x00,
		'3': 0x1b,
		'7': 0x1f,
		'8': 0x7f,
		'/': 0x1f,
		'1': '1',
	}
	for in, want := range tests {
		if got := controlRune(in); got != want {
			t.Errorf("controlRune(%q) = %#x; want %#x", in, got, want)
		}
	}
}

func TestKeysymText_ControlNulDropped(t *testing.T) {
	assert.Equal(t, "", keysymText(' ', modControl))
}

func TestGrabStatusError(t *testing.T) {
	assert.Equal(t, "already grabbed", GrabStatusError(xproto.GrabStatusAlreadyGrabbed).Error())
	assert.Equal(t, "frozen", GrabStatusError(xproto.GrabStatusFrozen).Error())
	assert.Equal(t, "grab status 9", GrabStatusError(9).Error())
}
