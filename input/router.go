// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package input routes pointer, touch and keyboard events to surfaces and runs
// the move, resize and drag grabs
package input

import (
	"fmt"

	"github.com/sirupsen/logrus"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/shortcuts"
)

const listenerName = "input-router"

// Router owns the grab state of one seat. Like the scene it must only be used from the event loop
type Router struct {
	scene     *scene.Scene
	seat      Seat
	shortcuts ShortcutMatcher

	// Holding this while pressing the left button moves a window from anywhere inside it.
	// Zero turns the feature off
	MoveModifier shortcuts.Modifiers

	grab    Grab
	pointer generaldata.Vector2f
	buttons map[uint32]bool
	// Surface receiving pointer events until every button is released
	pressed *scene.Surface
	hovered *scene.Surface
	touches map[int32]*scene.Surface

	shape   CursorShape
	hotspot generaldata.Vector2i
}

// NewRouter hooks a router up to the scene. Matcher may be nil
func NewRouter(sc *scene.Scene, seat Seat, matcher ShortcutMatcher) *Router {
	r := &Router{
		scene:        sc,
		seat:         seat,
		shortcuts:    matcher,
		MoveModifier: shortcuts.ModSuper,
		buttons:      make(map[uint32]bool),
		touches:      make(map[int32]*scene.Surface),
		shape:        CursorDefault,
	}
	if err := sc.SurfaceDestroyed.Connect(listenerName, r.surfaceDestroyed); err != nil {
		logrus.WithError(err).Warnln("Input router already attached to this scene")
	}
	if err := sc.FocusChanged.Connect(listenerName, r.focusChanged); err != nil {
		logrus.WithError(err).Warnln("Input router already attached to this scene")
	}
	return r
}

// Close detaches the router from the scene
func (r *Router) Close() {
	r.scene.SurfaceDestroyed.Disconnect(listenerName)
	r.scene.FocusChanged.Disconnect(listenerName)
}

// Grab returns a copy of the current grab
func (r *Router) Grab() Grab {
	return r.grab
}

func (r *Router) Pointer() generaldata.Vector2f {
	return r.pointer
}

func (r *Router) Hovered() *scene.Surface {
	return r.hovered
}

func (r *Router) CursorShape() CursorShape {
	return r.shape
}

// SetCursorImage makes s the pointer image, positioned so the hotspot sits under the pointer.
// Nil goes back to the compositor's own cursor
func (r *Router) SetCursorImage(s *scene.Surface, hotspot generaldata.Vector2i) error {
	if err := r.scene.SetCursor(s); err != nil {
		return err
	}
	r.hotspot = hotspot
	r.moveCursor()
	return nil
}

func (r *Router) moveCursor() {
	if c := r.scene.Cursor(); c != nil {
		c.SetPosition(r.pointer.Round().Sub(r.hotspot))
	}
}

func (r *Router) PointerMotion(e MotionEvent) {
	r.pointer = e.Position
	r.moveCursor()
	if r.grab.Active() {
		r.updateGrab(e.Position, e.Time)
		return
	}
	if s := r.hover(e.Position); s != nil {
		r.seat.PointerMotion(s, s.MapToSurface(e.Position), e.Time)
	}
}

func (r *Router) PointerButton(e ButtonEvent) {
	r.pointer = e.Position
	if e.Pressed {
		if s := r.press(e.Position, e.Button, e.Mods); s != nil {
			r.hoverSurface(s, e.Position)
			r.seat.PointerButton(s, e.Button, true, e.Time)
		}
		return
	}
	if s := r.release(e.Position, e.Button, e.Time); s != nil {
		r.seat.PointerButton(s, e.Button, false, e.Time)
	}
	if len(r.buttons) == 0 {
		r.hover(e.Position)
	}
}

// PointerAxis goes to the surface with pointer focus, grabs don't change that
func (r *Router) PointerAxis(e AxisEvent) {
	if r.hovered != nil {
		r.seat.PointerAxis(r.hovered, e)
	}
}

// Key hands the key to the shortcut matcher first, then to the focused surface
func (r *Router) Key(e KeyEvent) {
	if r.shortcuts != nil && r.shortcuts.Match(e.Sym, e.Mods, e.Pressed) {
		return
	}
	if f := r.scene.Focused(); f != nil {
		r.seat.Key(f, e)
	}
}

// TouchDown for touch point 0 acts like a left button press, other points only hit test
func (r *Router) TouchDown(e TouchEvent) {
	var s *scene.Surface
	if e.ID == 0 {
		r.pointer = e.Position
		r.moveCursor()
		s = r.press(e.Position, BtnLeft, 0)
	} else {
		s = r.scene.SurfaceAt(e.Position)
	}
	if s == nil {
		return
	}
	r.touches[e.ID] = s
	r.seat.TouchDown(s, e.ID, s.MapToSurface(e.Position), e.Time)
}

func (r *Router) TouchMotion(e TouchEvent) {
	if e.ID == 0 {
		r.pointer = e.Position
		r.moveCursor()
		if r.grab.Active() {
			r.updateGrab(e.Position, e.Time)
			return
		}
	}
	if s := r.touches[e.ID]; s != nil {
		r.seat.TouchMotion(s, e.ID, s.MapToSurface(e.Position), e.Time)
	}
}

func (r *Router) TouchUp(e TouchEvent) {
	if e.ID == 0 {
		r.release(r.pointer, BtnLeft, e.Time)
	}
	s, ok := r.touches[e.ID]
	if !ok {
		return
	}
	delete(r.touches, e.ID)
	r.seat.TouchUp(s, e.ID, e.Time)
}

// press runs the press algorithm and returns the surface the press should be forwarded to,
// nil if the compositor consumed it
func (r *Router) press(p generaldata.Vector2f, button uint32, mods shortcuts.Modifiers) *scene.Surface {
	held := len(r.buttons) > 0
	r.buttons[button] = true
	if r.grab.Active() {
		return nil
	}
	if held {
		return r.pressed
	}

	hit := r.scene.SurfaceAt(p)
	if hit == nil {
		if n := r.scene.ClosePopups(); n > 0 {
			logrus.WithField("popups", n).Debugln("Click on empty space, closing popups")
		}
		return nil
	}
	if hit.Role() != scene.RolePopup {
		r.scene.ClosePopups()
	}

	if button == BtnLeft {
		if r.MoveModifier != 0 && mods&r.MoveModifier != 0 && movable(hit) {
			r.focus(hit)
			r.startMove(hit, p)
			return nil
		}
		if onDecoration(hit, p) {
			r.pressDecoration(hit, p)
			return nil
		}
	} else if onDecoration(hit, p) {
		r.focus(hit)
		return nil
	}

	r.focus(hit)
	r.pressed = hit
	return hit
}

// pressDecoration handles a left press on the server drawn chrome of s
func (r *Router) pressDecoration(s *scene.Surface, p generaldata.Vector2f) {
	caps := s.Capabilities()
	switch {
	case caps.CanClose && s.CloseButtonRect().Contains(p):
		s.Close()
		return
	case caps.CanMaximize && s.MaximizeButtonRect().Contains(p):
		s.ToggleMaximized()
		return
	case caps.CanMinimize && s.MinimizeButtonRect().Contains(p):
		s.SetMinimized(true)
		return
	}
	r.focus(s)
	if edges := resizeEdges(s, p); edges != scene.EdgeNone {
		r.startResize(s, p, edges, true)
		return
	}
	if s.TitleBarRect().Contains(p) && movable(s) {
		r.startMove(s, p)
	}
}

// focus raises whatever got clicked and activates the window it belongs to
func (r *Router) focus(s *scene.Surface) {
	r.scene.Raise(s)
	target := s
	for target.Role() == scene.RolePopup && target.Parent() != nil {
		target = target.Parent()
	}
	switch role := target.Role(); {
	case role.Decoratable(), role == scene.RoleDesktop, role == scene.RoleFullscreenShell:
		r.scene.Activate(target)
	}
}

func (r *Router) startMove(s *scene.Surface, p generaldata.Vector2f) {
	s.StartMove()
	r.grab = Grab{
		Kind:    GrabMove,
		Surface: s,
		Offset:  p.Sub(s.AbsolutePosition().ToF()),
	}
	r.setShape(CursorMove)
	logrus.WithField("surface", s.ID()).Debugln("Move grab started")
}

func (r *Router) startResize(s *scene.Surface, p generaldata.Vector2f, edges scene.Edges, anchored bool) {
	s.BeginResize(edges, anchored)
	r.grab = Grab{
		Kind:        GrabResize,
		Surface:     s,
		Press:       p,
		InitialSize: s.Size(),
		Edges:       edges,
		Anchored:    anchored,
	}
	r.setShape(shapeForEdges(edges))
	logrus.WithFields(logrus.Fields{"surface": s.ID(), "edges": edges.String()}).Debugln("Resize grab started")
}

func (r *Router) updateGrab(p generaldata.Vector2f, time uint32) {
	switch r.grab.Kind {
	case GrabMove:
		r.grab.Surface.SetAbsolutePosition(p.Sub(r.grab.Offset).Round())
	case GrabResize:
		r.grab.Surface.Resize(r.grab.InitialSize, p.Sub(r.grab.Press).Round(), r.grab.Edges)
	case GrabDrag:
		if icon := r.grab.Icon; icon != nil {
			icon.SetPosition(p.Round())
		}
		target := r.scene.SurfaceAt(p)
		r.grab.Target = target
		local := p
		if target != nil {
			local = target.MapToSurface(p)
		}
		r.seat.DragMotion(target, local, time)
	}
}

// release ends the grab and returns the surface the release should be forwarded to
func (r *Router) release(p generaldata.Vector2f, button uint32, time uint32) *scene.Surface {
	if !r.buttons[button] {
		return nil
	}
	delete(r.buttons, button)
	target := r.pressed
	if len(r.buttons) == 0 {
		r.pressed = nil
	}

	switch r.grab.Kind {
	case GrabNone:
		return target
	case GrabMove:
		r.grab.Surface.EndMove()
	case GrabResize:
		r.grab.Surface.EndResize()
	case GrabDrag:
		drop := r.scene.SurfaceAt(p)
		local := p
		if drop != nil {
			local = drop.MapToSurface(p)
		}
		r.seat.Drop(drop, local, time)
		r.scene.SetDragIcon(nil)
		target = nil
	}
	logrus.WithField("grab", r.grab.Kind.String()).Debugln("Grab ended")
	r.grab = Grab{}
	r.setShape(CursorDefault)
	return target
}

// hover updates pointer focus for p and returns the surface that should get motion
func (r *Router) hover(p generaldata.Vector2f) *scene.Surface {
	if r.pressed != nil {
		r.hoverSurface(r.pressed, p)
		return r.pressed
	}
	hit := r.scene.SurfaceAt(p)
	edges := scene.EdgeNone
	if hit != nil {
		edges = resizeEdges(hit, p)
		if onDecoration(hit, p) {
			hit = nil
		}
	}
	r.setShape(shapeForEdges(edges))
	r.hoverSurface(hit, p)
	return hit
}

func (r *Router) hoverSurface(s *scene.Surface, p generaldata.Vector2f) {
	if s == r.hovered {
		return
	}
	if r.hovered != nil {
		r.seat.PointerLeave(r.hovered)
	}
	r.hovered = s
	if s != nil {
		r.seat.PointerEnter(s, s.MapToSurface(p))
	}
}

func (r *Router) setShape(shape CursorShape) {
	if shape == r.shape {
		return
	}
	r.shape = shape
	r.seat.SetCursorShape(shape)
}

// clientGrab checks whether a client may start a grab on s right now
func (r *Router) clientGrab(s *scene.Surface) error {
	if r.grab.Active() {
		return ErrGrabActive
	}
	if s == nil || r.pressed != s {
		return ErrNotPressed
	}
	return nil
}

// BeginMove starts a move grab a client asked for
func (r *Router) BeginMove(s *scene.Surface) error {
	if err := r.clientGrab(s); err != nil {
		return fmt.Errorf("move %s: %w", s, err)
	}
	if !movable(s) {
		return fmt.Errorf("move %s: %w", s, ErrNotMovable)
	}
	r.startMove(s, r.pointer)
	return nil
}

// BeginResize starts a resize grab a client asked for
func (r *Router) BeginResize(s *scene.Surface, edges scene.Edges, anchored bool) error {
	if err := r.clientGrab(s); err != nil {
		return fmt.Errorf("resize %s: %w", s, err)
	}
	if !resizable(s) || edges == scene.EdgeNone {
		return fmt.Errorf("resize %s: %w", s, ErrNotMovable)
	}
	r.startResize(s, r.pointer, edges, anchored)
	return nil
}

// BeginDrag starts drag and drop from source. Icon may be nil
func (r *Router) BeginDrag(source, icon *scene.Surface) error {
	if err := r.clientGrab(source); err != nil {
		return fmt.Errorf("drag from %s: %w", source, err)
	}
	if icon != nil {
		if err := r.scene.SetDragIcon(icon); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidIcon, err)
		}
		icon.SetPosition(r.pointer.Round())
	}
	r.grab = Grab{Kind: GrabDrag, Surface: source, Icon: icon}
	// The source keeps no pointer focus while dragging
	r.hoverSurface(nil, r.pointer)
	logrus.WithField("surface", source.ID()).Debugln("Drag started")
	return nil
}

func (r *Router) focusChanged(s *scene.Surface) {
	r.seat.KeyboardFocus(s)
}

// surfaceDestroyed drops every reference to s, cancelling a grab it took part in
func (r *Router) surfaceDestroyed(s *scene.Surface) {
	switch {
	case r.grab.Surface == s:
		if r.grab.Kind == GrabDrag {
			r.scene.SetDragIcon(nil)
		}
		logrus.WithFields(logrus.Fields{"surface": s.ID(), "grab": r.grab.Kind.String()}).
			Infoln("Grabbed surface destroyed, cancelling grab")
		r.grab = Grab{}
		r.setShape(CursorDefault)
	case r.grab.Icon == s:
		r.grab.Icon = nil
	}
	if r.grab.Target == s {
		r.grab.Target = nil
	}
	if r.pressed == s {
		r.pressed = nil
	}
	if r.hovered == s {
		r.hovered = nil
	}
	for id, t := range r.touches {
		if t == s {
			delete(r.touches, id)
		}
	}
}
