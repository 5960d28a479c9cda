// Package x11 is the X Window System side of the locker: it owns the server
// connection and the capture window, performs the input grabs and decodes
// key events for the authentication loop.
package x11

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/atinyakov/xlocker/internal/locker"
)

// ErrConnectionClosed is returned by NextEvent when the server went away.
var ErrConnectionClosed = errors.New("x11: connection closed")

// Default cursor colors, each with a fallback for servers without a full
// color database.
const (
	DefaultCursorFG         = "grey25"
	DefaultCursorFGFallback = "white"
	DefaultCursorBG         = "steelblue3"
	DefaultCursorBGFallback = "black"
)

// Options configures Open.
type Options struct {
	// Name is the display to connect to; empty means $DISPLAY.
	Name string
	// CursorFG and CursorBG are X color names for the grab cursor.
	CursorFG string
	CursorBG string
	Logger   *zap.Logger
}

// Display is an open connection with a mapped capture window.
type Display struct {
	xu     *xgbutil.XUtil
	win    xproto.Window
	cursor xproto.Cursor
	log    *zap.Logger
}

var _ locker.Display = (*Display)(nil)

// Open connects to the X server and creates the capture window: a 1x1
// InputOnly override-redirect window selecting key presses and releases.
func Open(opts Options) (*Display, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	xu, err := xgbutil.NewConnDisplay(opts.Name)
	if err != nil {
		return nil, fmt.Errorf("cannot open display: %w", err)
	}
	keybind.Initialize(xu)

	d := &Display{xu: xu, log: log}
	if err := d.createWindow(); err != nil {
		xu.Conn().Close()
		return nil, err
	}

	fg := d.lookupColor(cmp.Or(opts.CursorFG, DefaultCursorFG), DefaultCursorFGFallback)
	bg := d.lookupColor(cmp.Or(opts.CursorBG, DefaultCursorBG), DefaultCursorBGFallback)
	d.cursor, err = xcursor.CreateCursorExtra(xu, xcursor.LeftPtr,
		fg.red, fg.green, fg.blue, bg.red, bg.green, bg.blue)
	if err != nil {
		// The grab works without a cursor of our own.
		log.Warn("cannot create cursor", zap.Error(err))
		d.cursor = 0
	}
	return d, nil
}

func (d *Display) createWindow() error {
	conn := d.xu.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("allocate window id: %w", err)
	}
	err = xproto.CreateWindowChecked(conn, 0, wid, d.xu.RootWin(),
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0,
		xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{1, xproto.EventMaskKeyPress | xproto.EventMaskKeyRelease},
	).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	d.win = wid

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		return fmt.Errorf("map window: %w", err)
	}
	return nil
}

type rgb struct{ red, green, blue uint16 }

// lookupColor allocates the named color in the default colormap, trying
// fallback when the server does not know name. Black is the last resort.
func (d *Display) lookupColor(name, fallback string) rgb {
	cmap := d.xu.Screen().DefaultColormap
	for _, n := range []string{name, fallback} {
		reply, err := xproto.AllocNamedColor(d.xu.Conn(), cmap, uint16(len(n)), n).Reply()
		if err != nil {
			d.log.Debug("color not allocated", zap.String("color", n), zap.Error(err))
			continue
		}
		return rgb{reply.VisualRed, reply.VisualGreen, reply.VisualBlue}
	}
	return rgb{}
}

// GrabKeyboard makes one attempt at grabbing the keyboard for the capture
// window.
func (d *Display) GrabKeyboard() error {
	return keybind.GrabKeyboard(d.xu, d.win)
}

// UngrabKeyboard releases the keyboard and waits for the server to process
// the request.
func (d *Display) UngrabKeyboard() error {
	return xproto.UngrabKeyboardChecked(d.xu.Conn(), xproto.TimeCurrentTime).Check()
}

// GrabPointer makes one attempt at grabbing the pointer. No pointer events
// are selected; the grab only keeps them away from other clients.
func (d *Display) GrabPointer() error {
	reply, err := xproto.GrabPointer(d.xu.Conn(), false, d.win, 0,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, d.cursor, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return GrabStatusError(reply.Status)
	}
	return nil
}

// Bell rings the bell at the base volume.
func (d *Display) Bell() error {
	return xproto.BellChecked(d.xu.Conn(), 0).Check()
}

// NextEvent blocks for the next event from the server and decodes it.
func (d *Display) NextEvent() (locker.Event, error) {
	for {
		ev, xerr := d.xu.Conn().WaitForEvent()
		out, ok, err := translateEvent(ev, xerr, d.decode)
		if err != nil {
			return locker.Event{}, err
		}
		if !ok {
			d.log.Debug("x11 error", zap.String("error", xerr.Error()))
			continue
		}
		return out, nil
	}
}

// translateEvent maps one WaitForEvent result to a locker event. ok is false
// for an asynchronous X error, which the caller skips. Both values nil means
// the connection is gone.
func translateEvent(ev xgb.Event, xerr xgb.Error,
	decode func(xproto.Keycode, uint16) (locker.Keysym, string)) (out locker.Event, ok bool, err error) {
	if ev == nil && xerr == nil {
		return locker.Event{}, false, ErrConnectionClosed
	}
	if xerr != nil {
		return locker.Event{}, false, nil
	}

	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		sym, text := decode(e.Detail, e.State)
		return locker.KeyPress(sym, text), true, nil
	case xproto.KeyReleaseEvent:
		return locker.Event{Type: locker.EventKeyRelease}, true, nil
	default:
		return locker.Event{Type: locker.EventOther}, true, nil
	}
}

func (d *Display) decode(code xproto.Keycode, state uint16) (locker.Keysym, string) {
	return decodeKey(func(column byte) xproto.Keysym {
		return keybind.KeysymGet(d.xu, code, column)
	}, state)
}

// Close frees the cursor and the window and closes the connection, which
// also drops any grab still held.
func (d *Display) Close() error {
	conn := d.xu.Conn()
	var err error
	if d.cursor != 0 {
		err = multierr.Append(err, xproto.FreeCursorChecked(conn, d.cursor).Check())
	}
	if d.win != 0 {
		err = multierr.Append(err, xproto.DestroyWindowChecked(conn, d.win).Check())
	}
	conn.Close()
	return err
}

// GrabStatusError is a non-success status from a grab request.
type GrabStatusError byte

func (s GrabStatusError) Error() string {
	switch byte(s) {
	case xproto.GrabStatusAlreadyGrabbed:
		return "already grabbed"
	case xproto.GrabStatusInvalidTime:
		return "invalid time"
	case xproto.GrabStatusNotViewable:
		return "not viewable"
	case xproto.GrabStatusFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("grab status %d", byte(s))
	}
}
