package main

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"github.com/swaywm/go-wlroots/xkb"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/input"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/shortcuts"
)

// wlSeat delivers what the input router decided to the clients through the wlroots seat
type wlSeat struct {
	server *Server
}

func (s *wlSeat) surface(sf *scene.Surface) (wlroots.Surface, bool) {
	win := s.server.windows.forScene(sf)
	if win == nil || !win.mapped {
		return wlroots.Surface{}, false
	}
	return win.xdg.Surface(), true
}

func (s *wlSeat) PointerEnter(sf *scene.Surface, local generaldata.Vector2f) {
	if surface, ok := s.surface(sf); ok {
		s.server.seat.NotifyPointerEnter(surface, local.X, local.Y)
	}
}

func (s *wlSeat) PointerLeave(*scene.Surface) {
	s.server.seat.ClearPointerFocus()
}

func (s *wlSeat) PointerMotion(sf *scene.Surface, local generaldata.Vector2f, time uint32) {
	surface, ok := s.surface(sf)
	if !ok {
		return
	}
	/* wlroots avoids sending duplicate enter events if the surface already has pointer focus */
	s.server.seat.NotifyPointerEnter(surface, local.X, local.Y)
	s.server.seat.NotifyPointerMotion(time, local.X, local.Y)
}

func (s *wlSeat) PointerButton(_ *scene.Surface, button uint32, pressed bool, time uint32) {
	state := wlroots.ButtonStateReleased
	if pressed {
		state = wlroots.ButtonStatePressed
	}
	s.server.seat.NotifyPointerButton(time, button, state)
}

// wlroots numbers axis orientations the same way input does
func (s *wlSeat) PointerAxis(_ *scene.Surface, e input.AxisEvent) {
	s.server.seat.NotifyPointerAxis(e.Time, wlroots.AxisOrientation(e.Orientation), e.Delta, e.Discrete, s.server.axisSource)
}

func (s *wlSeat) KeyboardFocus(sf *scene.Surface) {
	surface, ok := s.surface(sf)
	if !ok {
		return
	}
	if s.server.seat.KeyboardState().FocusedSurface() == surface {
		return
	}
	s.server.seat.NotifyKeyboardEnter(surface, s.server.seat.Keyboard())
}

func (s *wlSeat) Key(_ *scene.Surface, e input.KeyEvent) {
	state := wlroots.KeyStateReleased
	if e.Pressed {
		state = wlroots.KeyStatePressed
	}
	s.server.seat.NotifyKeyboardKey(e.Time, e.Keycode, state)
}

// No touch devices get attached to the cursor, so these never fire
func (s *wlSeat) TouchDown(*scene.Surface, int32, generaldata.Vector2f, uint32)   {}
func (s *wlSeat) TouchMotion(*scene.Surface, int32, generaldata.Vector2f, uint32) {}
func (s *wlSeat) TouchUp(*scene.Surface, int32, uint32)                           {}

func (s *wlSeat) DragMotion(target *scene.Surface, _ generaldata.Vector2f, _ uint32) {
	if target != nil {
		logrus.WithField("target", target.ID()).Debugln("Drag over surface")
	}
}

func (s *wlSeat) Drop(target *scene.Surface, _ generaldata.Vector2f, _ uint32) {
	logrus.WithField("target", target).Debugln("Drop, data transfer is left to the data device manager")
}

func (s *wlSeat) SetCursorShape(shape input.CursorShape) {
	s.server.cursor.SetXCursor(s.server.cursorMgr, string(shape))
}

func (server *Server) handleNewPointer(dev wlroots.InputDevice) {
	/* All of our pointer handling is proxied through wlr_cursor. */
	server.cursor.AttachInputDevice(dev)
}

func (server *Server) handleNewKeyboard(dev wlroots.InputDevice) {
	keyboard := dev.Keyboard()

	/* We need to prepare an XKB keymap and assign it to the keyboard. This
	 * assumes the defaults (e.g. layout = "us"). */
	context := xkb.NewContext(xkb.KeySymFlagNoFlags)
	keymap := context.KeyMap()
	keyboard.SetKeymap(keymap)
	keymap.Destroy()
	context.Destroy()
	keyboard.SetRepeatInfo(25, 600)

	keyboard.OnModifiers(func(keyboard wlroots.Keyboard) {
		/* This event is raised when a modifier key, such as shift or alt, is
		 * pressed. We simply communicate this to the client. */
		server.seat.SetKeyboard(dev)
		server.seat.NotifyKeyboardModifiers(keyboard)
	})
	keyboard.OnKey(server.handleKey)

	server.seat.SetKeyboard(dev)
	server.keyboards = append(server.keyboards, &Keyboard{dev: dev})
}

func (server *Server) handleNewInput(dev wlroots.InputDevice) {
	switch dev.Type() {
	case wlroots.InputDeviceTypePointer:
		server.handleNewPointer(dev)
	case wlroots.InputDeviceTypeKeyboard:
		server.handleNewKeyboard(dev)
	}

	/* We always have a cursor, even if there are no pointer devices */
	caps := wlroots.SeatCapabilityPointer
	if len(server.keyboards) > 0 {
		caps |= wlroots.SeatCapabilityKeyboard
	}
	server.seat.SetCapabilities(caps)
}

// modifiers held on the most recently added keyboard
func (server *Server) modifiers() shortcuts.Modifiers {
	if len(server.keyboards) == 0 {
		return 0
	}
	return shortcuts.Modifiers(server.keyboards[len(server.keyboards)-1].dev.Keyboard().Modifiers())
}

func (server *Server) pointer() generaldata.Vector2f {
	return generaldata.Vector2f{X: server.cursor.X(), Y: server.cursor.Y()}
}

func (server *Server) handleKey(keyboard wlroots.Keyboard, time uint32, keyCode uint32, updateState bool, state wlroots.KeyState) {
	defer server.flush()
	// translate libinput keycode to xkbcommon and obtain keysyms
	sym := shortcuts.KeyNone
	if syms := keyboard.XKBState().Syms(xkb.KeyCode(keyCode + 8)); len(syms) > 0 {
		sym = shortcuts.Keysym(syms[0])
	}
	server.seat.SetKeyboard(keyboard.Base())
	server.router.Key(input.KeyEvent{
		Keycode: keyCode,
		Sym:     sym,
		Mods:    shortcuts.Modifiers(keyboard.Modifiers()),
		Pressed: state == wlroots.KeyStatePressed,
		Time:    time,
	})
}

func (server *Server) handleCursorMotion(dev wlroots.InputDevice, time uint32, dx float64, dy float64) {
	/* The cursor doesn't move unless we tell it to. */
	server.cursor.Move(dev, dx, dy)
	server.processCursorMotion(time)
}

func (server *Server) handleCursorMotionAbsolute(dev wlroots.InputDevice, time uint32, x float64, y float64) {
	server.cursor.WarpAbsolute(dev, x, y)
	server.processCursorMotion(time)
}

func (server *Server) processCursorMotion(time uint32) {
	defer server.flush()
	server.router.PointerMotion(input.MotionEvent{Position: server.pointer(), Time: time})
	if server.router.Hovered() == nil && !server.router.Grab().Active() {
		/* Over nothing, the last client's cursor image must not stick around */
		server.cursor.SetXCursor(server.cursorMgr, string(input.CursorDefault))
	}
}

func (server *Server) handleSetCursorRequest(client wlroots.SeatClient, surface wlroots.Surface, _ uint32, hotspotX int32, hotspotY int32) {
	/* This can be sent by any client, so we check to make sure this one
	 * actually has pointer focus first. */
	if server.seat.PointerState().FocusedClient() == client {
		server.cursor.SetSurface(surface, hotspotX, hotspotY)
	}
}

func (server *Server) handleCursorButton(_ wlroots.InputDevice, time uint32, button uint32, state wlroots.ButtonState) {
	defer server.flush()
	server.router.PointerButton(input.ButtonEvent{
		Position: server.pointer(),
		Button:   button,
		Pressed:  state != wlroots.ButtonStateReleased,
		Mods:     server.modifiers(),
		Time:     time,
	})
}

func (server *Server) handleCursorAxis(_ wlroots.InputDevice, time uint32, source wlroots.AxisSource, orientation wlroots.AxisOrientation, delta float64, deltaDiscrete int32) {
	defer server.flush()
	server.axisSource = source
	server.router.PointerAxis(input.AxisEvent{
		Orientation: input.Orientation(orientation),
		Delta:       delta,
		Discrete:    deltaDiscrete,
		Time:        time,
	})
}

func (server *Server) handleCursorFrame() {
	/* Frame events group pointer events, e.g. two axis events of one scroll */
	server.seat.NotifyPointerFrame()
}
