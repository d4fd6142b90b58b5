package input

import (
	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/shortcuts"
)

// Linux input event codes of the mouse buttons the router cares about
const (
	BtnLeft   = uint32(0x110)
	BtnRight  = uint32(0x111)
	BtnMiddle = uint32(0x112)
)

type Orientation int

const (
	AxisVertical Orientation = iota
	AxisHorizontal
)

type MotionEvent struct {
	Device   string
	Position generaldata.Vector2f
	Time     uint32
}

type ButtonEvent struct {
	Device   string
	Position generaldata.Vector2f
	Button   uint32
	Pressed  bool
	Mods     shortcuts.Modifiers
	Time     uint32
}

type AxisEvent struct {
	Device      string
	Orientation Orientation
	Delta       float64
	Discrete    int32
	Time        uint32
}

// KeyEvent carries the raw keycode for the client and the keysym xkb resolved it to
type KeyEvent struct {
	Device  string
	Keycode uint32
	Sym     shortcuts.Keysym
	Mods    shortcuts.Modifiers
	Pressed bool
	Time    uint32
}

type TouchEvent struct {
	Device   string
	ID       int32
	Position generaldata.Vector2f
	Time     uint32
}

// CursorShape names the image the pointer shows when no client set one
type CursorShape string

const (
	CursorDefault    = CursorShape("default")
	CursorMove       = CursorShape("move")
	CursorResizeNS   = CursorShape("ns-resize")
	CursorResizeEW   = CursorShape("ew-resize")
	CursorResizeNWSE = CursorShape("nwse-resize")
	CursorResizeNESW = CursorShape("nesw-resize")
)

// Seat delivers routed events to clients. Positions handed over are surface local
type Seat interface {
	PointerEnter(s *scene.Surface, local generaldata.Vector2f)
	PointerLeave(s *scene.Surface)
	PointerMotion(s *scene.Surface, local generaldata.Vector2f, time uint32)
	PointerButton(s *scene.Surface, button uint32, pressed bool, time uint32)
	PointerAxis(s *scene.Surface, e AxisEvent)

	KeyboardFocus(s *scene.Surface)
	Key(s *scene.Surface, e KeyEvent)

	TouchDown(s *scene.Surface, id int32, local generaldata.Vector2f, time uint32)
	TouchMotion(s *scene.Surface, id int32, local generaldata.Vector2f, time uint32)
	TouchUp(s *scene.Surface, id int32, time uint32)

	// Target is nil while the pointer is over nothing
	DragMotion(target *scene.Surface, local generaldata.Vector2f, time uint32)
	Drop(target *scene.Surface, local generaldata.Vector2f, time uint32)

	SetCursorShape(shape CursorShape)
}

// ShortcutMatcher gets every key before the focused client does
type ShortcutMatcher interface {
	Match(sym shortcuts.Keysym, mods shortcuts.Modifiers, pressed bool) bool
}
